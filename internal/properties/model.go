// Package properties manages the property-listing collection: CRUD
// plumbing over MariaDB plus the search-query construction used by the
// public search endpoint.
package properties

import (
	"time"
)

// Property represents a single listing. Database scanning and JSON
// marshaling use this struct directly.
type Property struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postalCode"`
	PropertyType string    `json:"propertyType"`
	RentOrSale   string    `json:"rentOrSale"`
	Price        float64   `json:"price"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    float64   `json:"bathrooms"`
	SquareFeet   int       `json:"squareFeet"`
	LotSize      float64   `json:"lotSize"`
	YearBuilt    int       `json:"yearBuilt"`
	Description  string    `json:"description"`
	Images       []string  `json:"images"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PropertyRequest holds a full listing body as submitted to the create and
// update endpoints. Field names match the frontend's JSON payload.
type PropertyRequest struct {
	Name         string   `json:"name" form:"name"`
	Address      string   `json:"address" form:"address"`
	City         string   `json:"city" form:"city"`
	State        string   `json:"state" form:"state"`
	PostalCode   string   `json:"postalCode" form:"postalCode"`
	PropertyType string   `json:"propertyType" form:"propertyType"`
	RentOrSale   string   `json:"rentOrSale" form:"rentOrSale"`
	Price        float64  `json:"price" form:"price"`
	Bedrooms     int      `json:"bedrooms" form:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms" form:"bathrooms"`
	SquareFeet   int      `json:"squareFeet" form:"squareFeet"`
	LotSize      float64  `json:"lotSize" form:"lotSize"`
	YearBuilt    int      `json:"yearBuilt" form:"yearBuilt"`
	Description  string   `json:"description" form:"description"`
	Images       []string `json:"images" form:"images"`
}

// ImagesRequest holds the body of the image-replacement endpoint.
type ImagesRequest struct {
	Images []string `json:"images" form:"images"`
}
