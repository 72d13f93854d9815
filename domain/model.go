package domain

import (
	"encoding/json"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	FirstName   string             `bson:"firstName,omitempty" json:"firstName,omitempty" validate:"required,min=2,max=30"`
	LastName    string             `bson:"lastName,omitempty" json:"lastName,omitempty" validate:"required,min=2,max=30"`
	Email       string             `bson:"email" json:"email" validate:"required,email"`
	Password    string             `bson:"password,omitempty" json:"password,omitempty"`
	Role        Role               `bson:"role" json:"role"`
	IsSuspended bool               `bson:"isSuspended" json:"isSuspended"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type Role string

const (
	Customer Role = "customer"
	Provider Role = "provider"
	Admin    Role = "admin"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// ServiceProvider approval is carried by two flags, isApproved and the
// legacy approved field. Every write must set both in the same update
// document so a single-document write keeps them in sync.
type ServiceProvider struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	UserID         string             `bson:"userId" json:"userId" validate:"required"`
	ServiceType    string             `bson:"serviceType" json:"serviceType" validate:"required"`
	IsApproved     bool               `bson:"isApproved" json:"isApproved"`
	Approved       bool               `bson:"approved" json:"approved"`
	RejectedReason string             `bson:"rejectedReason,omitempty" json:"rejectedReason,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type Property struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	OwnerID   string             `bson:"ownerId" json:"ownerId" validate:"required"`
	Title     string             `bson:"title" json:"title" validate:"required"`
	Status    PropertyStatus     `bson:"status" json:"status"`
	Price     float64            `bson:"price" json:"price" validate:"gt=0"`
	Address   string             `bson:"address" json:"address" validate:"required"`
	City      string             `bson:"city,omitempty" json:"city,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type PropertyStatus string

const (
	PropertyPending   PropertyStatus = "pending"
	PropertyPublished PropertyStatus = "published"
	PropertySuspended PropertyStatus = "suspended"
)

func (user *User) Validate() error {
	validate := validator.New()
	return validate.Struct(user)
}

func (property *Property) Validate() error {
	validate := validator.New()
	return validate.Struct(property)
}

func (provider *ServiceProvider) Validate() error {
	validate := validator.New()
	return validate.Struct(provider)
}

func (user *User) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(user)
}
