package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Listing struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	SellerID  string             `bson:"sellerId" json:"sellerId" validate:"required"`
	Title     string             `bson:"title" json:"title" validate:"required"`
	Category  string             `bson:"category" json:"category" validate:"required"`
	City      string             `bson:"city,omitempty" json:"city,omitempty"`
	Price     float64            `bson:"price" json:"price" validate:"gt=0"`
	Status    ListingStatus      `bson:"status" json:"status"`
	Images    []string           `bson:"images,omitempty" json:"images,omitempty"`
	Views     int                `bson:"views" json:"views"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type ListingStatus string

const (
	ListingPending ListingStatus = "pending"
	ListingActive  ListingStatus = "active"
	ListingSold    ListingStatus = "sold"
	ListingRemoved ListingStatus = "removed"
)

func (listing *Listing) Validate() error {
	validate := validator.New()
	return validate.Struct(listing)
}

type ImageUpload struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// Conjunctive filters for listing queries. Zero values mean "not set".
type ListingFilter struct {
	Status   ListingStatus `json:"status,omitempty"`
	Category string        `json:"category,omitempty"`
	City     string        `json:"city,omitempty"`
	MinPrice float64       `json:"minPrice,omitempty"`
	MaxPrice float64       `json:"maxPrice,omitempty"`
}

type ListingOptions struct {
	OrderBy    string `json:"orderBy,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

func (filter ListingFilter) Matches(listing *Listing) bool {
	if filter.Status != "" && listing.Status != filter.Status {
		return false
	}
	if filter.Category != "" && listing.Category != filter.Category {
		return false
	}
	if filter.City != "" && listing.City != filter.City {
		return false
	}
	if filter.MinPrice > 0 && listing.Price < filter.MinPrice {
		return false
	}
	if filter.MaxPrice > 0 && listing.Price > filter.MaxPrice {
		return false
	}
	return true
}

type Offer struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	ListingID   string             `bson:"listingId" json:"listingId" validate:"required"`
	BuyerID     string             `bson:"buyerId" json:"buyerId" validate:"required"`
	SellerID    string             `bson:"sellerId" json:"sellerId" validate:"required"`
	OfferAmount float64            `bson:"offerAmount" json:"offerAmount" validate:"gt=0"`
	Status      OfferStatus        `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferWithdrawn OfferStatus = "withdrawn"
)

// The only values updateOfferStatus accepts. Pending is the creation
// default and never a target of an update.
func (status OfferStatus) IsValidUpdate() bool {
	return status == OfferAccepted || status == OfferRejected || status == OfferWithdrawn
}

func (offer *Offer) Validate() error {
	validate := validator.New()
	return validate.Struct(offer)
}
