package products

import (
	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
)

// ProductInput carries the caller-editable product fields. Create and update
// share the shape; an update overwrites all of them.
type ProductInput struct {
	Name        string
	Description *string
	Price       float64
	Stock       int
	Available   bool
	Category    *string
	ImageURL    *string
}

// ToModel prepares a new product row for the given pulpería.
func (in ProductInput) ToModel(pulperiaID string) *models.Product {
	return &models.Product{
		ID:          ids.New("product"),
		PulperiaID:  pulperiaID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Available:   in.Available,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	}
}

// Apply overwrites the editable fields on an existing product.
func (in ProductInput) Apply(product *models.Product) {
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.Available = in.Available
	product.Category = in.Category
	product.ImageURL = in.ImageURL
}

// CatalogProductDTO is a product enriched with its pulpería's display fields
// for the cross-store search listing.
type CatalogProductDTO struct {
	models.Product
	PulperiaName string  `json:"pulperia_name,omitempty"`
	PulperiaLogo *string `json:"pulperia_logo,omitempty"`
}
