package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Agent request review states.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// ValidRequestStatus reports whether s is a known review state.
func ValidRequestStatus(s string) bool {
	return s == RequestPending || s == RequestApproved || s == RequestRejected
}

// AgentRequest is an application to become a delivery agent.
type AgentRequest struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RequestID    string             `json:"requestId" bson:"requestId"`
	UID          string             `json:"uid,omitempty" bson:"uid,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Phone        string             `json:"phone" bson:"phone"`
	Email        string             `json:"email" bson:"email"`
	VehicleType  string             `json:"vehicleType" bson:"vehicleType"`
	Availability string             `json:"availability" bson:"availability"`
	Experience   string             `json:"experience,omitempty" bson:"experience,omitempty"`
	Status       string             `json:"status" bson:"status"`
	ReviewedAt   *time.Time         `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	ReviewedBy   string             `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewNotes  string             `json:"reviewNotes,omitempty" bson:"reviewNotes,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// AgentRequestQuery filters agent-request listings.
type AgentRequestQuery struct {
	UID    string
	Status string
	ID     string // hex document id
}

// RequestReview records an admin decision on an agent request.
type RequestReview struct {
	Status     string `json:"status"`
	ReviewedBy string `json:"reviewedBy,omitempty"`
	Notes      string `json:"reviewNotes,omitempty"`
}
