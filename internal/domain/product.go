package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryTShirts     Category = "T-Shirts"
	CategoryShirts      Category = "Shirts"
	CategoryHoodies     Category = "Hoodies"
	CategoryTrousers    Category = "Trousers"
	CategoryDresses     Category = "Dresses"
	CategoryShoes       Category = "Shoes"
	CategoryJackets     Category = "Jackets"
	CategoryAccessories Category = "Accessories"
)

var Categories = []Category{
	CategoryTShirts,
	CategoryShirts,
	CategoryHoodies,
	CategoryTrousers,
	CategoryDresses,
	CategoryShoes,
	CategoryJackets,
	CategoryAccessories,
}

type Gender string

const (
	GenderMen    Gender = "Men"
	GenderWomen  Gender = "Women"
	GenderUnisex Gender = "Unisex"
)

var Sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

type Image struct {
	URL       string `bson:"url" json:"url"`
	StorageID string `bson:"storage_id" json:"storageId"`
}

type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    Category           `bson:"category" json:"category"`
	Gender      Gender             `bson:"gender" json:"gender"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Stock       int                `bson:"stock" json:"stock"`
	Images      []Image            `bson:"images" json:"images"`
	Featured    bool               `bson:"featured" json:"featured"`
	Trending    bool               `bson:"trending" json:"trending"`
	Rating      Rating             `bson:"rating" json:"rating"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func ValidGender(g Gender) bool {
	return g == GenderMen || g == GenderWomen || g == GenderUnisex
}

func ValidSize(s string) bool {
	for _, known := range Sizes {
		if s == known {
			return true
		}
	}
	return false
}

// HasSize reports whether the product is offered in the given size.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// FirstImage returns the URL of the product's primary image, or "" when the
// product has no images yet.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
