package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery statuses a booking moves through. "status" and "deliveryStatus"
// are kept as aliases of each other in the document, matching what the
// tracking frontend expects.
const (
	StatusPending   = "pending"
	StatusPickedUp  = "picked-up"
	StatusInTransit = "in-transit"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// ValidDeliveryStatus reports whether s is one of the whitelisted statuses.
func ValidDeliveryStatus(s string) bool {
	switch s {
	case StatusPending, StatusPickedUp, StatusInTransit, StatusDelivered, StatusFailed:
		return true
	}
	return false
}

// NormalizeStatus lowercases a status and folds spaces/underscores to
// hyphens, so "In Transit" and "in_transit" both read "in-transit".
func NormalizeStatus(s string) string {
	if s == "" {
		s = StatusPending
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	return strings.ReplaceAll(s, "_", "-")
}

// Booking is a single parcel-delivery order.
type Booking struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID           string             `json:"bookingId" bson:"bookingId"`
	UID                 string             `json:"uid,omitempty" bson:"uid,omitempty"`
	Email               string             `json:"email,omitempty" bson:"email,omitempty"`
	PickupContactName   string             `json:"pickupContactName" bson:"pickupContactName"`
	PickupPhone         string             `json:"pickupPhone" bson:"pickupPhone"`
	PickupAddress       string             `json:"pickupAddress" bson:"pickupAddress"`
	DeliveryContactName string             `json:"deliveryContactName" bson:"deliveryContactName"`
	DeliveryPhone       string             `json:"deliveryPhone" bson:"deliveryPhone"`
	DeliveryAddress     string             `json:"deliveryAddress" bson:"deliveryAddress"`
	DeliveryDivision    string             `json:"deliveryDivision" bson:"deliveryDivision"`
	DeliveryZipCode     string             `json:"deliveryZipCode" bson:"deliveryZipCode"`
	ParcelSize          string             `json:"parcelSize" bson:"parcelSize"`
	ParcelType          string             `json:"parcelType" bson:"parcelType"`
	ParcelWeight        float64            `json:"parcelWeight" bson:"parcelWeight"`
	PaymentMethod       string             `json:"paymentMethod" bson:"paymentMethod"`
	DeliveryCharge      int                `json:"deliveryCharge" bson:"deliveryCharge"`
	TotalCharge         int                `json:"totalCharge" bson:"totalCharge"`
	ChargeBreakdown     ChargeBreakdown    `json:"chargeBreakdown" bson:"chargeBreakdown"`
	Status              string             `json:"status" bson:"status"`
	DeliveryStatus      string             `json:"deliveryStatus,omitempty" bson:"deliveryStatus,omitempty"`
	FailureReason       string             `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	FailedAt            *time.Time         `json:"failedAt,omitempty" bson:"failedAt,omitempty"`
	DeliveryAgent       *DeliveryAgent     `json:"deliveryAgent,omitempty" bson:"deliveryAgent,omitempty"`
	LastLocation        *LastLocation      `json:"lastLocation,omitempty" bson:"lastLocation,omitempty"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// DeliveryAgent is the agent assigned to carry a booking.
type DeliveryAgent struct {
	UID        string    `json:"uid,omitempty" bson:"uid,omitempty"`
	Name       string    `json:"name" bson:"name"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Email      string    `json:"email,omitempty" bson:"email,omitempty"`
	AssignedAt time.Time `json:"assignedAt" bson:"assignedAt"`
	AssignedBy string    `json:"assignedBy" bson:"assignedBy"`
}

// ChargeBreakdown explains how a booking's delivery charge was computed.
type ChargeBreakdown struct {
	BaseCharge   int    `json:"baseCharge" bson:"baseCharge"`
	WeightCharge int    `json:"weightCharge" bson:"weightCharge"`
	TotalCharge  int    `json:"totalCharge" bson:"totalCharge"`
	ZipCodeRange string `json:"zipCodeRange" bson:"zipCodeRange"`
}

// CalculateDeliveryCharge prices a delivery. Zip codes 1000-1399 (Dhaka
// metro) get the discounted base rate; anything above 5 kg is billed per
// started kilogram.
func CalculateDeliveryCharge(zipCode string, weightKg float64) ChargeBreakdown {
	base := 160
	zone := "Standard Zone"
	if zip, err := strconv.Atoi(strings.TrimSpace(zipCode)); err == nil && zip >= 1000 && zip <= 1399 {
		base = 100
		zone = "Premium Zone (1000-1399)"
	}

	weightCharge := 0
	if weightKg > 5 {
		weightCharge = int(math.Ceil(weightKg-5)) * 100
	}

	return ChargeBreakdown{
		BaseCharge:   base,
		WeightCharge: weightCharge,
		TotalCharge:  base + weightCharge,
		ZipCodeRange: zone,
	}
}

// PublicTracking is the customer-facing view of a booking, safe to expose
// without authentication on the tracking page.
type PublicTracking struct {
	BookingID       string        `json:"bookingId"`
	Status          string        `json:"status"`
	DeliveryStatus  string        `json:"deliveryStatus"`
	PickupAddress   string        `json:"pickupAddress"`
	DeliveryAddress string        `json:"deliveryAddress"`
	ParcelType      string        `json:"parcelType"`
	ParcelSize      string        `json:"parcelSize"`
	ParcelWeight    float64       `json:"parcelWeight"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt,omitempty"`
	LastLocation    *LastLocation `json:"lastLocation"`
	DeliveryAgent   *AgentContact `json:"deliveryAgent"`
}

// AgentContact is the reduced agent view on the public tracking page.
type AgentContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// PublicView strips a booking down to what the tracking page may see.
func (b *Booking) PublicView() PublicTracking {
	status := b.DeliveryStatus
	if status == "" {
		status = b.Status
	}
	status = NormalizeStatus(status)

	pt := PublicTracking{
		BookingID:       b.BookingID,
		Status:          status,
		DeliveryStatus:  status,
		PickupAddress:   b.PickupAddress,
		DeliveryAddress: b.DeliveryAddress,
		ParcelType:      b.ParcelType,
		ParcelSize:      b.ParcelSize,
		ParcelWeight:    b.ParcelWeight,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		LastLocation:    b.LastLocation,
	}
	if b.DeliveryAgent != nil {
		pt.DeliveryAgent = &AgentContact{Name: b.DeliveryAgent.Name, Phone: b.DeliveryAgent.Phone}
	}
	return pt
}

// BookingQuery filters booking listings.
type BookingQuery struct {
	AgentUID  string
	Status    string
	BookingID string
}
