// internal/app/store/users/userstore.go
package userstore

import (
	"context"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store wraps the users collection. The catalog only reads from it: course
// detail responses join the assigned instructor's display fields.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetInstructor returns the user with the given id if they hold the
// instructor role. mongo.ErrNoDocuments when absent or not an instructor.
func (s *Store) GetInstructor(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id, "role": "instructor"}).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetInstructors returns instructor users for the given ids, keyed by id.
// Missing ids are simply absent from the map.
func (s *Store) GetInstructors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "role": "instructor"})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
