package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAgent    = "agent"
	RoleAdmin    = "admin"
)

// User is a registered account, keyed by the auth provider's uid.
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UID            string             `json:"uid" bson:"uid"`
	Name           string             `json:"name,omitempty" bson:"name,omitempty"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role           string             `json:"role,omitempty" bson:"role,omitempty"`
	Address        string             `json:"address,omitempty" bson:"address,omitempty"`
	City           string             `json:"city,omitempty" bson:"city,omitempty"`
	ZipCode        string             `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
	DateOfBirth    string             `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	PhotoURL       string             `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	AgentInfo      *AgentInfo         `json:"agentInfo,omitempty" bson:"agentInfo,omitempty"`
	LastSignInTime string             `json:"lastSignInTime,omitempty" bson:"lastSignInTime,omitempty"`
	CreatedAt      time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt      time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// AgentInfo is attached to a user once their agent request is approved.
type AgentInfo struct {
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	VehicleType  string    `json:"vehicleType" bson:"vehicleType"`
	Availability string    `json:"availability" bson:"availability"`
	Experience   string    `json:"experience,omitempty" bson:"experience,omitempty"`
	ApprovedAt   time.Time `json:"approvedAt" bson:"approvedAt"`
}

// ProfilePatch carries the whitelisted profile fields a user may change.
// Nil pointers mean "leave unchanged".
type ProfilePatch struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	ZipCode     *string `json:"zipCode,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	PhotoURL    *string `json:"photoUrl,omitempty"`
}

// Fields returns the set fields as a column→value map for the update.
func (p ProfilePatch) Fields() map[string]any {
	m := make(map[string]any)
	set := func(k string, v *string) {
		if v != nil {
			m[k] = *v
		}
	}
	set("name", p.Name)
	set("phone", p.Phone)
	set("address", p.Address)
	set("city", p.City)
	set("zipCode", p.ZipCode)
	set("dateOfBirth", p.DateOfBirth)
	set("photoUrl", p.PhotoURL)
	return m
}

// UserQuery filters user listings.
type UserQuery struct {
	UID  string
	Role string
}
