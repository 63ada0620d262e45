package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginSession is one audit record in the "loginSessions" collection.
// Records are append-only; the application never mutates or deletes them.
type LoginSession struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
	IPAddress     string             `bson:"ipAddress" json:"ipAddress"`
	UserAgent     string             `bson:"userAgent" json:"userAgent"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
	DeviceType    string             `bson:"deviceType,omitempty" json:"deviceType,omitempty"`
	Success       bool               `bson:"success" json:"success"`
	FailureReason string             `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
}
