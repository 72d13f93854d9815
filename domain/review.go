package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	AuthorID   string             `bson:"authorId" json:"authorId" validate:"required"`
	TargetID   string             `bson:"targetId" json:"targetId" validate:"required"`
	TargetType string             `bson:"targetType" json:"targetType" validate:"required"`
	Rating     int                `bson:"rating" json:"rating" validate:"min=1,max=5"`
	Comment    string             `bson:"comment" json:"comment" validate:"min=10"`
	CreatedAt  time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

func (review *Review) Validate() error {
	validate := validator.New()
	return validate.Struct(review)
}

// Never persisted, recomputed from the live result set on every view.
type RatingSummary struct {
	TargetID string  `json:"targetId"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

func Summarize(targetID string, reviews []*Review) RatingSummary {
	summary := RatingSummary{TargetID: targetID}
	if len(reviews) == 0 {
		return summary
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	summary.Count = len(reviews)
	summary.Average = float64(sum) / float64(len(reviews))
	return summary
}
