package domain

import "time"

// DateRange bounds an analytics query; zero values mean unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DailyBookingStat is one day's booking volume and revenue.
type DailyBookingStat struct {
	Date        string  `json:"date" bson:"_id"`
	Count       int     `json:"count" bson:"count"`
	TotalAmount float64 `json:"totalAmount" bson:"totalAmount"`
}

// DeliveryStats aggregates bookings by status.
type DeliveryStats struct {
	Total     int `json:"total" bson:"total"`
	Delivered int `json:"delivered" bson:"delivered"`
	Pending   int `json:"pending" bson:"pending"`
	InTransit int `json:"inTransit" bson:"inTransit"`
	Failed    int `json:"failed" bson:"failed"`
	PickedUp  int `json:"pickedUp" bson:"pickedUp"`
}

// DeliveryReport wraps DeliveryStats with the derived success rate.
type DeliveryReport struct {
	Stats       DeliveryStats `json:"stats"`
	Successful  int           `json:"successful"`
	Failed      int           `json:"failed"`
	SuccessRate float64       `json:"successRate"`
}

// CODSummary aggregates cash-on-delivery amounts.
type CODSummary struct {
	TotalCOD          float64 `json:"totalCOD" bson:"totalCOD"`
	TotalCODOrders    int     `json:"totalCODOrders" bson:"totalCODOrders"`
	PendingCOD        float64 `json:"pendingCOD" bson:"pendingCOD"`
	PendingCODOrders  int     `json:"pendingCODOrders" bson:"pendingCODOrders"`
	ReceivedCOD       float64 `json:"receivedCOD" bson:"receivedCOD"`
	ReceivedCODOrders int     `json:"receivedCODOrders" bson:"receivedCODOrders"`
}
