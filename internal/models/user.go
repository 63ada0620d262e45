package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SecuritySettings is an optional per-user subdocument. It is created
// lazily on first read and replaced wholesale on update.
type SecuritySettings struct {
	TwoFactorEnabled         bool     `bson:"twoFactorEnabled" json:"twoFactorEnabled"`
	LoginNotifications       bool     `bson:"loginNotifications" json:"loginNotifications"`
	SuspiciousActivityAlerts bool     `bson:"suspiciousActivityAlerts" json:"suspiciousActivityAlerts"`
	SessionTimeout           int      `bson:"sessionTimeout" json:"sessionTimeout"` // minutes
	AllowedDevices           []string `bson:"allowedDevices" json:"allowedDevices"`
}

// DefaultSecuritySettings returns the settings materialized for users
// who have never saved any.
func DefaultSecuritySettings() SecuritySettings {
	return SecuritySettings{
		TwoFactorEnabled:         false,
		LoginNotifications:       true,
		SuspiciousActivityAlerts: true,
		SessionTimeout:           30,
		AllowedDevices:           []string{},
	}
}

// UserProfile matches the document in the "users" collection. The document
// doubles as the identity record: the bcrypt hash lives alongside the
// profile fields and is never serialized to clients.
type UserProfile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UID              string             `bson:"uid" json:"uid"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`
	PasswordHash     string             `bson:"password" json:"-"`
	Phone            string             `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfilePicture   string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
	IsEmailVerified  bool               `bson:"isEmailVerified" json:"isEmailVerified"`
	TwoFactorEnabled bool               `bson:"twoFactorEnabled,omitempty" json:"twoFactorEnabled,omitempty"`
	SecuritySettings *SecuritySettings  `bson:"securitySettings,omitempty" json:"securitySettings,omitempty"`
}
