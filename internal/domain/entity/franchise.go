package entity

import (
	"time"

	"github.com/google/uuid"
)

// Franchise es la raíz del agregado: se persiste como un único documento con sus sucursales y
// productos embebidos. Version es el token de concurrencia optimista del documento.
type Franchise struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Branches  []Branch  `json:"branches"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Branch sucursal; solo existe dentro de una franquicia.
type Branch struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// Product producto de una sucursal. Stock nunca es negativo (se valida en el borde HTTP).
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// NewID genera un identificador opaco para franquicias, sucursales y productos.
func NewID() string {
	return uuid.New().String()
}

// FindBranch busca una sucursal por id. El puntero apunta al elemento dentro del slice.
func (f *Franchise) FindBranch(branchID string) (*Branch, bool) {
	for i := range f.Branches {
		if f.Branches[i].ID != "" && f.Branches[i].ID == branchID {
			return &f.Branches[i], true
		}
	}
	return nil, false
}

// AddBranch agrega la sucursal al final, asignando id a ella y a sus productos si no lo tienen.
// Devuelve el puntero a la sucursal ya insertada.
func (f *Franchise) AddBranch(b Branch, newID func() string) *Branch {
	if b.ID == "" {
		b.ID = newID()
	}
	if b.Products == nil {
		b.Products = []Product{}
	}
	for i := range b.Products {
		if b.Products[i].ID == "" {
			b.Products[i].ID = newID()
		}
	}
	f.Branches = append(f.Branches, b)
	return &f.Branches[len(f.Branches)-1]
}

// RemoveBranch elimina la primera sucursal con ese id. Devuelve false si no existe.
func (f *Franchise) RemoveBranch(branchID string) bool {
	for i := range f.Branches {
		if f.Branches[i].ID != "" && f.Branches[i].ID == branchID {
			f.Branches = append(f.Branches[:i], f.Branches[i+1:]...)
			return true
		}
	}
	return false
}

// TotalProducts cantidad de productos sumando todas las sucursales.
func (f *Franchise) TotalProducts() int {
	total := 0
	for _, b := range f.Branches {
		total += len(b.Products)
	}
	return total
}

// TotalStock suma el stock de todos los productos de todas las sucursales.
func (f *Franchise) TotalStock() int {
	total := 0
	for _, b := range f.Branches {
		for _, p := range b.Products {
			total += p.Stock
		}
	}
	return total
}

// AssignMissingIDs asigna id a toda sucursal y producto que no lo tenga.
func (f *Franchise) AssignMissingIDs(newID func() string) {
	if f.Branches == nil {
		f.Branches = []Branch{}
	}
	for i := range f.Branches {
		b := &f.Branches[i]
		if b.ID == "" {
			b.ID = newID()
		}
		if b.Products == nil {
			b.Products = []Product{}
		}
		for j := range b.Products {
			if b.Products[j].ID == "" {
				b.Products[j].ID = newID()
			}
		}
	}
}

// Normalize reemplaza slices nil por vacíos (un documento sin lista se trata como lista vacía).
func (f *Franchise) Normalize() {
	if f.Branches == nil {
		f.Branches = []Branch{}
	}
	for i := range f.Branches {
		if f.Branches[i].Products == nil {
			f.Branches[i].Products = []Product{}
		}
	}
}

// Clone copia profunda del agregado.
func (f *Franchise) Clone() *Franchise {
	if f == nil {
		return nil
	}
	out := *f
	out.Branches = make([]Branch, len(f.Branches))
	for i, b := range f.Branches {
		out.Branches[i] = b
		out.Branches[i].Products = append([]Product(nil), b.Products...)
		if out.Branches[i].Products == nil {
			out.Branches[i].Products = []Product{}
		}
	}
	return &out
}

// FindProduct busca un producto por id dentro de la sucursal.
func (b *Branch) FindProduct(productID string) (*Product, bool) {
	for i := range b.Products {
		if b.Products[i].ID != "" && b.Products[i].ID == productID {
			return &b.Products[i], true
		}
	}
	return nil, false
}

// AddProduct agrega el producto al final asignando id si no lo tiene.
func (b *Branch) AddProduct(p Product, newID func() string) *Product {
	if p.ID == "" {
		p.ID = newID()
	}
	b.Products = append(b.Products, p)
	return &b.Products[len(b.Products)-1]
}

// RemoveProduct elimina el primer producto con ese id. Devuelve false si no existe.
func (b *Branch) RemoveProduct(productID string) bool {
	for i := range b.Products {
		if b.Products[i].ID != "" && b.Products[i].ID == productID {
			b.Products = append(b.Products[:i], b.Products[i+1:]...)
			return true
		}
	}
	return false
}
