package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
)

// BatchCreate crea cada franquicia de forma independiente con a lo sumo concurrency en paralelo.
// Un fallo no detiene al resto; los resultados respetan el orden de entrada.
func (uc *FranchiseUseCase) BatchCreate(ctx context.Context, items []dto.CreateFranchiseRequest, concurrency int) *dto.BatchResponse {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]dto.BatchItemResult, len(items))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, in := range items {
		g.Go(func() error {
			res := dto.BatchItemResult{Index: i, Name: in.Name}
			created, err := uc.Create(ctx, in)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Franchise = created
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := &dto.BatchResponse{Results: results}
	for _, r := range results {
		if r.Error == "" {
			out.Created++
		} else {
			out.Failed++
		}
	}
	uc.log.Info().Int("created", out.Created).Int("failed", out.Failed).Msg("lote de franquicias procesado")
	return out
}
