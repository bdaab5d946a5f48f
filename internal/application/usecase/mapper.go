package usecase

import (
	"github.com/jhoicas/franquicias-api/internal/application/dto"
	"github.com/jhoicas/franquicias-api/internal/domain/entity"
)

func toFranchiseResponse(f *entity.Franchise) *dto.FranchiseResponse {
	if f == nil {
		return nil
	}
	out := &dto.FranchiseResponse{
		ID:        f.ID,
		Name:      f.Name,
		Branches:  make([]dto.BranchResponse, 0, len(f.Branches)),
		Version:   f.Version,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	for _, b := range f.Branches {
		out.Branches = append(out.Branches, toBranchResponse(b))
	}
	return out
}

func toBranchResponse(b entity.Branch) dto.BranchResponse {
	out := dto.BranchResponse{ID: b.ID, Name: b.Name, Products: make([]dto.ProductResponse, 0, len(b.Products))}
	for _, p := range b.Products {
		out.Products = append(out.Products, toProductResponse(p))
	}
	return out
}

func toProductResponse(p entity.Product) dto.ProductResponse {
	return dto.ProductResponse{ID: p.ID, Name: p.Name, Stock: p.Stock}
}

// fromCreateBranch construye la sucursal sin ids: los asigna el agregado al insertarla.
func fromCreateBranch(in dto.CreateBranchRequest) entity.Branch {
	b := entity.Branch{Name: in.Name, Products: make([]entity.Product, 0, len(in.Products))}
	for _, p := range in.Products {
		b.Products = append(b.Products, fromCreateProduct(p))
	}
	return b
}

func fromCreateProduct(in dto.CreateProductRequest) entity.Product {
	p := entity.Product{Name: in.Name}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	return p
}
