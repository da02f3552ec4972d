package mongorepo

import (
	"context"
	"fmt"

	"github.com/gmarket/export-svc/internal/service/models/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "users"

// UserDal represents the user document as stored in MongoDB.
type UserDal struct {
	ID       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
	Email    string             `bson:"email"`
	IsAdmin  bool               `bson:"is_admin"`
}

// ToModel converts UserDal to the service layer User model.
func (d *UserDal) ToModel() *user.User {
	return &user.User{
		ID:       d.ID,
		Username: d.Username,
		Email:    d.Email,
		IsAdmin:  d.IsAdmin,
	}
}

// MongoUserRepository reads users from MongoDB.
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.Collection(collectionName),
	}
}

// FindByIDs batch-fetches users by id.
func (r *MongoUserRepository) FindByIDs(
	ctx context.Context,
	ids []primitive.ObjectID,
) (map[primitive.ObjectID]user.User, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]user.User{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	result := make(map[primitive.ObjectID]user.User, len(ids))
	for cursor.Next(ctx) {
		var dal UserDal
		if err := cursor.Decode(&dal); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		result[dal.ID] = *dal.ToModel()
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}

	return result, nil
}
