package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hurryup/express/internal/core/domain"
)

// AgentRequestRepo implements ports.AgentRequestRepository on the
// "agent-requests" collection.
type AgentRequestRepo struct {
	col *mongo.Collection
}

func NewAgentRequestRepo(db *DB) *AgentRequestRepo {
	return &AgentRequestRepo{col: db.Database.Collection("agent-requests")}
}

func (r *AgentRequestRepo) Insert(ctx context.Context, req *domain.AgentRequest) error {
	res, err := r.col.InsertOne(ctx, req)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = id
	}
	return nil
}

func (r *AgentRequestRepo) Find(ctx context.Context, q domain.AgentRequestQuery) ([]domain.AgentRequest, error) {
	filter := bson.M{}
	if q.UID != "" {
		filter["uid"] = q.UID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.ID != "" {
		oid, err := primitive.ObjectIDFromHex(q.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid request id: %w", err)
		}
		filter["_id"] = oid
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var requests []domain.AgentRequest
	if err := cur.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *AgentRequestRepo) FindByID(ctx context.Context, id string) (*domain.AgentRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid request id: %w", err)
	}
	var req domain.AgentRequest
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *AgentRequestRepo) FindActiveByUID(ctx context.Context, uid string) (*domain.AgentRequest, error) {
	var req domain.AgentRequest
	err := r.col.FindOne(ctx, bson.M{
		"uid":    uid,
		"status": bson.M{"$in": bson.A{domain.RequestPending, domain.RequestApproved}},
	}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *AgentRequestRepo) Review(ctx context.Context, id string, review domain.RequestReview) (*domain.AgentRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid request id: %w", err)
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":      review.Status,
		"reviewedAt":  now,
		"reviewedBy":  review.ReviewedBy,
		"reviewNotes": review.Notes,
		"updatedAt":   now,
	}}

	var updated domain.AgentRequest
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
