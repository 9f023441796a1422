package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hurryup/express/internal/core/domain"
)

// AnalyticsRepo runs aggregation pipelines over the bookings collection.
type AnalyticsRepo struct {
	col *mongo.Collection
}

func NewAnalyticsRepo(db *DB) *AnalyticsRepo {
	return &AnalyticsRepo{col: db.Database.Collection("bookings")}
}

func rangeFilter(r domain.DateRange) bson.M {
	bounds := bson.M{}
	if !r.Start.IsZero() {
		bounds["$gte"] = r.Start
	}
	if !r.End.IsZero() {
		bounds["$lte"] = r.End
	}
	if len(bounds) == 0 {
		return bson.M{}
	}
	return bson.M{"createdAt": bounds}
}

// statusCount buckets on $status: creation only sets status, so aggregating
// on deliveryStatus would miss bookings that were never picked up.
func statusCount(status string) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{"$status", status}}, 1, 0,
	}}}
}

func dailyBookingsPipeline(dr domain.DateRange) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: rangeFilter(dr)}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$createdAt",
			}},
			"count":       bson.M{"$sum": 1},
			"totalAmount": bson.M{"$sum": "$totalCharge"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

func deliveryStatsPipeline(dr domain.DateRange) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: rangeFilter(dr)}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"total":     bson.M{"$sum": 1},
			"delivered": statusCount(domain.StatusDelivered),
			"pending":   statusCount(domain.StatusPending),
			"inTransit": statusCount(domain.StatusInTransit),
			"failed":    statusCount(domain.StatusFailed),
			"pickedUp":  statusCount(domain.StatusPickedUp),
		}}},
	}
}

func codSummaryPipeline(dr domain.DateRange) mongo.Pipeline {
	match := rangeFilter(dr)
	match["paymentMethod"] = "cod"

	delivered := bson.M{"$eq": bson.A{"$status", domain.StatusDelivered}}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"totalCOD":       bson.M{"$sum": "$totalCharge"},
			"totalCODOrders": bson.M{"$sum": 1},
			"receivedCOD": bson.M{"$sum": bson.M{"$cond": bson.A{
				delivered, "$totalCharge", 0,
			}}},
			"receivedCODOrders": bson.M{"$sum": bson.M{"$cond": bson.A{
				delivered, 1, 0,
			}}},
			"pendingCOD": bson.M{"$sum": bson.M{"$cond": bson.A{
				delivered, 0, "$totalCharge",
			}}},
			"pendingCODOrders": bson.M{"$sum": bson.M{"$cond": bson.A{
				delivered, 0, 1,
			}}},
		}}},
	}
}

func (r *AnalyticsRepo) DailyBookings(ctx context.Context, dr domain.DateRange) ([]domain.DailyBookingStat, error) {
	cur, err := r.col.Aggregate(ctx, dailyBookingsPipeline(dr))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var stats []domain.DailyBookingStat
	if err := cur.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *AnalyticsRepo) DeliveryStats(ctx context.Context, dr domain.DateRange) (*domain.DeliveryStats, error) {
	cur, err := r.col.Aggregate(ctx, deliveryStatsPipeline(dr))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []domain.DeliveryStats
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &domain.DeliveryStats{}, nil
	}
	return &rows[0], nil
}

func (r *AnalyticsRepo) CODSummary(ctx context.Context, dr domain.DateRange) (*domain.CODSummary, error) {
	cur, err := r.col.Aggregate(ctx, codSummaryPipeline(dr))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []domain.CODSummary
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &domain.CODSummary{}, nil
	}
	return &rows[0], nil
}
