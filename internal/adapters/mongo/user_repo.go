package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hurryup/express/internal/core/domain"
)

// UserRepo implements ports.UserRepository on the "users" collection.
type UserRepo struct {
	col *mongo.Collection
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{col: db.Database.Collection("users")}
}

func (r *UserRepo) Insert(ctx context.Context, u *domain.User) error {
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *UserRepo) Find(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	filter := bson.M{}
	if q.UID != "" {
		filter["uid"] = q.UID
	}
	if q.Role != "" {
		filter["role"] = q.Role
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"uid": uid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile patches fields on the user addressed by document id when
// idOrUID is a valid ObjectID hex, otherwise by uid.
func (r *UserRepo) UpdateProfile(ctx context.Context, idOrUID string, fields map[string]any) (int64, error) {
	var filter bson.M
	if oid, err := primitive.ObjectIDFromHex(idOrUID); err == nil {
		filter = bson.M{"_id": oid}
	} else {
		filter = bson.M{"uid": idOrUID}
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	if res.MatchedCount == 0 {
		return 0, nil
	}
	return res.ModifiedCount, nil
}

func (r *UserRepo) TouchLastSignIn(ctx context.Context, uid, lastSignInTime string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"uid": uid},
		bson.M{"$set": bson.M{"lastSignInTime": lastSignInTime}})
	return err
}

func (r *UserRepo) PromoteToAgent(ctx context.Context, uid string, info domain.AgentInfo) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{
		"$set": bson.M{
			"role":      domain.RoleAgent,
			"agentInfo": info,
			"updatedAt": time.Now(),
		},
	})
	return err
}
