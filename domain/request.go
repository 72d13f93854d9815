package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestType string

const (
	RentalRequest       RequestType = "rental"
	BuySellRequest      RequestType = "buySell"
	ConstructionRequest RequestType = "construction"
	RenovationRequest   RequestType = "renovation"
)

type RequestStatus string

const (
	StatusPending    RequestStatus = "Pending"
	StatusAccepted   RequestStatus = "Accepted"
	StatusRejected   RequestStatus = "Rejected"
	StatusConfirmed  RequestStatus = "Confirmed"
	StatusPaid       RequestStatus = "Paid"
	StatusInProgress RequestStatus = "In Progress"
	StatusCompleted  RequestStatus = "Completed"
	StatusCancelled  RequestStatus = "Cancelled"
)

type Request struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Type        RequestType        `bson:"type" json:"type" validate:"required"`
	UserID      string             `bson:"userId" json:"userId" validate:"required"`
	PropertyID  string             `bson:"propertyId,omitempty" json:"propertyId,omitempty"`
	ProviderID  string             `bson:"providerId,omitempty" json:"providerId,omitempty"`
	ServiceType string             `bson:"serviceType,omitempty" json:"serviceType,omitempty"`
	Amount      float64            `bson:"amount,omitempty" json:"amount,omitempty"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	ChatID      string             `bson:"chatId,omitempty" json:"chatId,omitempty"`
	Status      RequestStatus      `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

func (request *Request) Validate() error {
	validate := validator.New()
	return validate.Struct(request)
}

// Terminal statuses have no outgoing transitions in any table below.
func (status RequestStatus) IsTerminal() bool {
	return status == StatusCompleted || status == StatusRejected || status == StatusCancelled
}

var commonTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusAccepted, StatusRejected, StatusConfirmed},
	StatusConfirmed:  {StatusAccepted, StatusRejected},
	StatusAccepted:   {StatusPaid, StatusInProgress},
	StatusPaid:       {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted},
}

// Cancellation of an accepted offer is a buy/sell concept only.
var buySellTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusAccepted, StatusRejected, StatusConfirmed},
	StatusConfirmed:  {StatusAccepted, StatusRejected},
	StatusAccepted:   {StatusPaid, StatusInProgress, StatusCancelled},
	StatusPaid:       {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted},
}

var transitionTables = map[RequestType]map[RequestStatus][]RequestStatus{
	RentalRequest:       commonTransitions,
	BuySellRequest:      buySellTransitions,
	ConstructionRequest: commonTransitions,
	RenovationRequest:   commonTransitions,
}

func (requestType RequestType) CanTransition(from, to RequestStatus) bool {
	table, ok := transitionTables[requestType]
	if !ok {
		return false
	}
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type NoticeTone string

const (
	ToneSuccess NoticeTone = "success"
	ToneError   NoticeTone = "error"
	ToneInfo    NoticeTone = "info"
)

type StatusNotice struct {
	Fragment string
	Tone     NoticeTone
}

var requestLabels = map[RequestType]string{
	RentalRequest:       "rental request",
	BuySellRequest:      "buy/sell offer",
	ConstructionRequest: "construction request",
	RenovationRequest:   "renovation request",
}

var statusNotices = map[RequestStatus]StatusNotice{
	StatusPending:    {Fragment: "has been submitted and is awaiting review", Tone: ToneInfo},
	StatusAccepted:   {Fragment: "has been accepted", Tone: ToneSuccess},
	StatusRejected:   {Fragment: "has been rejected", Tone: ToneError},
	StatusConfirmed:  {Fragment: "has been confirmed", Tone: ToneSuccess},
	StatusPaid:       {Fragment: "has been paid", Tone: ToneSuccess},
	StatusInProgress: {Fragment: "is now in progress", Tone: ToneInfo},
	StatusCompleted:  {Fragment: "has been completed", Tone: ToneSuccess},
	StatusCancelled:  {Fragment: "has been cancelled", Tone: ToneError},
}

func (requestType RequestType) Label() string {
	if label, ok := requestLabels[requestType]; ok {
		return label
	}
	return "request"
}

func NoticeFor(status RequestStatus) StatusNotice {
	if notice, ok := statusNotices[status]; ok {
		return notice
	}
	return StatusNotice{Fragment: "has been updated", Tone: ToneInfo}
}
