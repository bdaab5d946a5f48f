package dto

import "time"

// CreateProductRequest producto al crearse (dentro de una sucursal o por POST .../products).
// Los ids los asigna siempre el servidor.
type CreateProductRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=200"`
	Stock *int   `json:"stock" validate:"required,min=0"`
}

// CreateBranchRequest sucursal con productos opcionales.
type CreateBranchRequest struct {
	Name     string                 `json:"name" validate:"required,notblank,max=200"`
	Products []CreateProductRequest `json:"products" validate:"omitempty,dive"`
}

// CreateFranchiseRequest entrada para crear una franquicia, opcionalmente con sucursales y productos.
type CreateFranchiseRequest struct {
	Name     string                `json:"name" validate:"required,notblank,max=200"`
	Branches []CreateBranchRequest `json:"branches" validate:"omitempty,dive"`
}

// UpdateNameRequest renombrar franquicia, sucursal o producto.
type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}

// UpdateStockRequest nuevo stock de un producto.
type UpdateStockRequest struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}

// SearchRequest filtros de búsqueda (query string). Umbrales por defecto 0.
type SearchRequest struct {
	Name        string `query:"name"`
	MinBranches int    `query:"minBranches" validate:"min=0"`
	MinProducts int    `query:"minProducts" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Products []ProductResponse `json:"products"`
}

// FranchiseResponse salida del agregado completo.
type FranchiseResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Branches  []BranchResponse `json:"branches"`
	Version   int64            `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// FranchiseListResponse listado de franquicias.
type FranchiseListResponse struct {
	Items []FranchiseResponse `json:"items"`
	Total int                 `json:"total"`
}

// TopStockProductResponse producto con más stock de una sucursal.
type TopStockProductResponse struct {
	ProductName string `json:"productName"`
	BranchName  string `json:"branchName"`
	Stock       int    `json:"stock"`
}

// FranchiseStatsResponse totales de una franquicia.
type FranchiseStatsResponse struct {
	FranchiseName string `json:"franchiseName"`
	TotalBranches int    `json:"totalBranches"`
	TotalProducts int    `json:"totalProducts"`
	TotalStock    int    `json:"totalStock"`
}

// BatchItemResult resultado de un elemento de POST /batch. Error vacío = creada.
type BatchItemResult struct {
	Index     int                `json:"index"`
	Name      string             `json:"name"`
	Franchise *FranchiseResponse `json:"franchise,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// BatchResponse resultados en el mismo orden de la entrada.
type BatchResponse struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Results []BatchItemResult `json:"results"`
}
