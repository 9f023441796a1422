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

// BookingRepo implements ports.BookingRepository and ports.LocationStore on
// the "bookings" collection.
type BookingRepo struct {
	col *mongo.Collection
}

func NewBookingRepo(db *DB) *BookingRepo {
	return &BookingRepo{col: db.Database.Collection("bookings")}
}

func (r *BookingRepo) Insert(ctx context.Context, b *domain.Booking) error {
	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = id
	}
	return nil
}

func (r *BookingRepo) Find(ctx context.Context, q domain.BookingQuery) ([]domain.Booking, error) {
	filter := bson.M{}
	if q.AgentUID != "" {
		filter["deliveryAgent.uid"] = q.AgentUID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.BookingID != "" {
		filter["bookingId"] = q.BookingID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bookings []domain.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepo) FindByCustomer(ctx context.Context, uid string) ([]domain.Booking, error) {
	cur, err := r.col.Find(ctx, bson.M{"uid": uid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bookings []domain.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepo) FindByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.col.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", err)
	}
	var b domain.Booking
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) AssignAgent(ctx context.Context, id string, agent domain.DeliveryAgent) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"deliveryAgent":  agent,
		"status":         domain.StatusPickedUp,
		"deliveryStatus": domain.StatusPickedUp,
		"updatedAt":      time.Now(),
	}}

	var updated domain.Booking
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

func (r *BookingRepo) UpdateDeliveryStatus(ctx context.Context, id, status, failureReason string) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", err)
	}

	set := bson.M{
		"deliveryStatus": status,
		"status":         status, // kept as an alias of deliveryStatus
		"updatedAt":      time.Now(),
	}
	update := bson.M{"$set": set}
	if status == domain.StatusFailed && failureReason != "" {
		set["failureReason"] = failureReason
		set["failedAt"] = time.Now()
	} else {
		update["$unset"] = bson.M{"failureReason": "", "failedAt": ""}
	}

	var updated domain.Booking
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

// --- ports.LocationStore ---

// lastLocationDoc projects just the embedded location.
type lastLocationDoc struct {
	LastLocation *domain.LastLocation `bson:"lastLocation"`
}

func (r *BookingRepo) LastLocation(ctx context.Context, bookingID string) (*domain.LastLocation, error) {
	var doc lastLocationDoc
	err := r.col.FindOne(ctx, bson.M{"bookingId": bookingID},
		options.FindOne().SetProjection(bson.M{"lastLocation": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.LastLocation, nil
}

func (r *BookingRepo) UpsertLastLocation(ctx context.Context, bookingID string, loc domain.LastLocation) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"bookingId": bookingID}, bson.M{
		"$set": bson.M{"lastLocation": loc, "updatedAt": time.Now()},
	})
	return err
}
