package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Parcel statuses form a fixed enumeration; there are no dynamic statuses.
const (
	StatusPending   = "pending"
	StatusInTransit = "in-transit"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// AllStatuses returns the four parcel statuses in lifecycle order.
func AllStatuses() []string {
	return []string{StatusPending, StatusInTransit, StatusDelivered, StatusCancelled}
}

// StatusEntry is one element of a parcel's append-only status history.
type StatusEntry struct {
	Status    string    `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Location  string    `bson:"location" json:"location"`
}

type PaymentInfo struct {
	Amount string `bson:"amount" json:"amount"` // numeric text, "0" by default
	Method string `bson:"method" json:"method"` // "Cash" or "Card"
	Status string `bson:"status" json:"status"`
}

// Parcel matches the document in the "parcels" collection.
type Parcel struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrackingNumber   string             `bson:"trackingNumber" json:"trackingNumber"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description" json:"description"`
	Status           string             `bson:"status" json:"status"`
	Sender           string             `bson:"sender" json:"sender"`
	Recipient        string             `bson:"recipient" json:"recipient"`
	RecipientAddress string             `bson:"recipientAddress" json:"recipientAddress"`
	Weight           string             `bson:"weight" json:"weight"`
	Dimensions       string             `bson:"dimensions" json:"dimensions"`
	Photos           []string           `bson:"photos" json:"photos"`
	PaymentInfo      PaymentInfo        `bson:"paymentInfo" json:"paymentInfo"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
	UserID           string             `bson:"userId" json:"userId"`
	// StatusHistory is oldest-first; the last entry always matches Status.
	StatusHistory []StatusEntry `bson:"statusHistory" json:"statusHistory"`
}
