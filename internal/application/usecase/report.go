package usecase

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
	"github.com/jhoicas/franquicias-api/internal/domain/entity"
)

// SearchFilter criterios de búsqueda. Name vacío no filtra por nombre.
type SearchFilter struct {
	Name        string
	MinBranches int
	MinProducts int
}

// TopStockByBranch devuelve, por cada sucursal con productos y en el orden de las sucursales,
// el primer producto que alcanza el stock máximo. Las sucursales vacías se omiten.
func TopStockByBranch(f *entity.Franchise) []dto.TopStockProductResponse {
	out := make([]dto.TopStockProductResponse, 0, len(f.Branches))
	for _, b := range f.Branches {
		if len(b.Products) == 0 {
			continue
		}
		top := b.Products[0]
		for _, p := range b.Products[1:] {
			if p.Stock > top.Stock {
				top = p
			}
		}
		out = append(out, dto.TopStockProductResponse{ProductName: top.Name, BranchName: b.Name, Stock: top.Stock})
	}
	return out
}

// ComputeStats totales de sucursales, productos y stock.
func ComputeStats(f *entity.Franchise) dto.FranchiseStatsResponse {
	return dto.FranchiseStatsResponse{
		FranchiseName: f.Name,
		TotalBranches: len(f.Branches),
		TotalProducts: f.TotalProducts(),
		TotalStock:    f.TotalStock(),
	}
}

// MatchesFilter nombre contiene filter.Name (sin distinguir mayúsculas) y cumple ambos mínimos.
func MatchesFilter(f *entity.Franchise, filter SearchFilter) bool {
	if filter.Name != "" {
		fold := cases.Fold()
		if !strings.Contains(fold.String(f.Name), fold.String(filter.Name)) {
			return false
		}
	}
	return len(f.Branches) >= filter.MinBranches && f.TotalProducts() >= filter.MinProducts
}
