// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName     string             `bson:"firstName" json:"firstName"`
	LastName      string             `bson:"lastName" json:"lastName"`
	Email         string             `bson:"email" json:"email"`
	JobTitle      string             `bson:"jobTitle,omitempty" json:"jobTitle,omitempty"`
	PasswordHash  string             `bson:"passwordHash" json:"-"`
	Roles         []string           `bson:"roles" json:"roles"`
	DeactivatedAt *time.Time         `bson:"deactivatedAt,omitempty" json:"deactivatedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FullName is a presentation helper, never persisted.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsActive reports whether the account can still authenticate. Users
// referenced by quotes or RFQs are never hard-deleted, only deactivated.
func (u *User) IsActive() bool {
	return u.DeactivatedAt == nil
}
