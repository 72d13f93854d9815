package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      NoticeTone         `bson:"type" json:"type"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type NotificationAudience string

const (
	AudienceAllUsers     NotificationAudience = "all-users"
	AudienceAllProviders NotificationAudience = "all-providers"
	AudienceSingleUser   NotificationAudience = "single-uid"
)

type BulkNotificationRequest struct {
	Audience NotificationAudience `json:"audience" mapstructure:"audience"`
	TargetID string               `json:"targetId,omitempty" mapstructure:"targetId"`
	Title    string               `json:"title" mapstructure:"title"`
	Message  string               `json:"message" mapstructure:"message"`
	Type     NoticeTone           `json:"type,omitempty" mapstructure:"type"`
	Link     string               `json:"link,omitempty" mapstructure:"link"`
}

type BulkProgress struct {
	Sent  int `json:"sent"`
	Total int `json:"total"`
}

type BulkResult struct {
	Recipients int `json:"recipients"`
	Batches    int `json:"batches"`
	Sent       int `json:"sent"`
}

// ConfirmationRequiredError halts a bulk send before any write when the
// resolved audience exceeds the confirmation threshold.
type ConfirmationRequiredError struct {
	Recipients int
}

func (e *ConfirmationRequiredError) Error() string {
	return "bulk send requires explicit confirmation"
}

// DeadLetter records a swallowed best-effort side effect so failures
// stay visible without blocking the primary write.
type DeadLetter struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Operation string             `bson:"operation" json:"operation"`
	Detail    string             `bson:"detail,omitempty" json:"detail,omitempty"`
	Error     string             `bson:"error" json:"error"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}
