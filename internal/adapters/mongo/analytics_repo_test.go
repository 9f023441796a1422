package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hurryup/express/internal/core/domain"
)

func groupStage(t *testing.T, p mongo.Pipeline) bson.M {
	t.Helper()
	for _, stage := range p {
		for _, e := range stage {
			if e.Key == "$group" {
				return e.Value.(bson.M)
			}
		}
	}
	t.Fatal("pipeline has no $group stage")
	return nil
}

func TestDailyBookingsPipelineSumsTotalCharge(t *testing.T) {
	group := groupStage(t, dailyBookingsPipeline(domain.DateRange{}))

	sum := group["totalAmount"].(bson.M)["$sum"]
	if sum != "$totalCharge" {
		t.Errorf("totalAmount sums %v, want $totalCharge so the weight surcharge is included", sum)
	}
}

func TestDeliveryStatsPipelineBucketsOnStatus(t *testing.T) {
	group := groupStage(t, deliveryStatsPipeline(domain.DateRange{}))

	for _, bucket := range []string{"delivered", "pending", "inTransit", "failed", "pickedUp"} {
		cond := group[bucket].(bson.M)["$sum"].(bson.M)["$cond"].(bson.A)
		eq := cond[0].(bson.M)["$eq"].(bson.A)
		if eq[0] != "$status" {
			t.Errorf("%s bucket keys on %v; must key on $status, the field every write path sets", bucket, eq[0])
		}
	}
}

func TestCODSummaryPipelineChecksStatus(t *testing.T) {
	group := groupStage(t, codSummaryPipeline(domain.DateRange{}))

	cond := group["receivedCOD"].(bson.M)["$sum"].(bson.M)["$cond"].(bson.A)
	eq := cond[0].(bson.M)["$eq"].(bson.A)
	if eq[0] != "$status" || eq[1] != domain.StatusDelivered {
		t.Errorf("receivedCOD condition %v, want $status == delivered", eq)
	}
	if sum := group["totalCOD"].(bson.M)["$sum"]; sum != "$totalCharge" {
		t.Errorf("totalCOD sums %v, want $totalCharge", sum)
	}
}

func TestRangeFilterBounds(t *testing.T) {
	if got := rangeFilter(domain.DateRange{}); len(got) != 0 {
		t.Errorf("open range should match everything, got %v", got)
	}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	got := rangeFilter(domain.DateRange{Start: start, End: end})
	bounds := got["createdAt"].(bson.M)
	if bounds["$gte"] != start || bounds["$lte"] != end {
		t.Errorf("bounds %v", bounds)
	}
}
