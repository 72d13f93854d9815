package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transactions are an append-only log. Status is updated exactly once
// per payment outcome and documents are never deleted.
type Transaction struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	UserID     string             `bson:"userId" json:"userId"`
	TargetType RequestType        `bson:"targetType" json:"targetType"`
	TargetID   string             `bson:"targetId" json:"targetId"`
	Amount     float64            `bson:"amount" json:"amount"`
	Currency   string             `bson:"currency" json:"currency"`
	Status     TransactionStatus  `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "failed"
)

func (status TransactionStatus) IsValid() bool {
	return status == TransactionPending || status == TransactionSuccess || status == TransactionFailed
}

var paymentDerivedStatus = map[RequestType]map[RequestStatus]RequestStatus{
	RentalRequest: {
		StatusAccepted: StatusPaid,
		StatusPending:  StatusConfirmed,
	},
	BuySellRequest: {
		StatusAccepted: StatusPaid,
		StatusPending:  StatusConfirmed,
	},
	ConstructionRequest: {
		StatusPending: StatusConfirmed,
	},
	RenovationRequest: {
		StatusPending: StatusConfirmed,
	},
}

// StatusAfterPayment derives the request status a successful payment
// implies. When no mapping applies the current status is returned
// unchanged, which makes the payment hook a no-op.
func StatusAfterPayment(targetType RequestType, current RequestStatus) RequestStatus {
	if table, ok := paymentDerivedStatus[targetType]; ok {
		if next, ok := table[current]; ok {
			return next
		}
	}
	return current
}
