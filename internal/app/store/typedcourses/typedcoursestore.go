// internal/app/store/typedcourses/typedcoursestore.go
package typedcoursestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/sanitize"
	"github.com/dalemusser/coursehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store wraps one of the three typed course collections (live, blended,
// free). All three share the TypedCourse schema; the store pins the
// course_type discriminator so a live store cannot insert a free course.
type Store struct {
	c          *mongo.Collection
	courseType string
}

var (
	ErrDuplicateTitle  = errors.New("a course with this title already exists")
	ErrVersionConflict = errors.New("curriculum was modified by another request")
)

// New builds a store for the given typed course type.
func New(db *mongo.Database, courseType string) (*Store, error) {
	coll := models.CollectionFor(courseType)
	if coll == "" {
		return nil, fmt.Errorf("unknown course type %q", courseType)
	}
	return &Store{c: db.Collection(coll), courseType: courseType}, nil
}

// CourseType returns the discriminator this store is pinned to.
func (s *Store) CourseType() string { return s.courseType }

// Create inserts a new typed course, forcing the discriminator, folding the
// title, scrubbing rich text, and applying variant defaults (free courses
// default access_type to "unlimited").
func (s *Store) Create(ctx context.Context, c models.TypedCourse) (models.TypedCourse, error) {
	now := time.Now().UTC()

	c.ID = primitive.NewObjectID()
	c.CourseType = s.courseType
	c.TitleCI = text.Fold(c.Title)
	c.Description = sanitize.ScrubRichText(c.Description)
	if c.Status == "" {
		c.Status = models.StatusDraft
	}
	if s.courseType == models.CourseTypeFree && c.AccessType == "" {
		c.AccessType = models.AccessTypeUnlimited
	}
	c.CreatedAt = now
	c.UpdatedAt = &now

	if strings.TrimSpace(c.Title) == "" {
		return models.TypedCourse{}, mongo.CommandError{Message: "title is required"}
	}

	_, err := s.c.InsertOne(ctx, c)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.TypedCourse{}, ErrDuplicateTitle
		}
		return models.TypedCourse{}, err
	}
	return c, nil
}

// Update modifies mutable fields and refreshes UpdatedAt. The discriminator
// and curriculum are never updated here.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.TypedCourse) error {
	set := bson.M{}

	if strings.TrimSpace(mut.Title) != "" {
		set["title"] = mut.Title
		set["title_ci"] = text.Fold(mut.Title)
	}
	if mut.Description != "" {
		set["description"] = sanitize.ScrubRichText(mut.Description)
	}
	if mut.Category != "" {
		set["course_category"] = mut.Category
	}
	if mut.CategoryType != "" {
		set["category_type"] = mut.CategoryType
	}
	if mut.Tags != nil {
		set["tags"] = mut.Tags
	}
	if mut.GradeLevel != "" {
		set["grade_level"] = mut.GradeLevel
	}
	if mut.Status != "" {
		set["status"] = mut.Status
	}
	if mut.Prices != nil {
		set["prices"] = mut.Prices
	}
	if mut.InstructorID != nil {
		set["instructor_id"] = mut.InstructorID
	}

	// Variant payloads, only the one matching this store's type.
	switch s.courseType {
	case models.CourseTypeLive:
		if mut.CourseSchedule != nil {
			set["course_schedule"] = mut.CourseSchedule
		}
	case models.CourseTypeBlended:
		if mut.DoubtSessionSchedule != nil {
			set["doubt_session_schedule"] = mut.DoubtSessionSchedule
		}
	case models.CourseTypeFree:
		if mut.AccessType != "" {
			set["access_type"] = mut.AccessType
		}
		if mut.AccessDuration != "" {
			set["access_duration"] = mut.AccessDuration
		}
	}

	now := time.Now().UTC()
	set["updated_at"] = now

	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	return nil
}

// GetByID returns a typed course by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.TypedCourse, error) {
	var c models.TypedCourse
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		return models.TypedCourse{}, err
	}
	return c, nil
}

// Delete removes a course by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SaveCurriculum persists a re-indexed curriculum with a compare-and-swap
// on curriculum_version; see the legacy store for the race semantics.
func (s *Store) SaveCurriculum(ctx context.Context, id primitive.ObjectID, cur models.Curriculum, expectedVersion int64) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "curriculum_version": expectedVersion},
		bson.M{
			"$set": bson.M{"curriculum": cur, "updated_at": now},
			"$inc": bson.M{"curriculum_version": 1},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return mongo.ErrNoDocuments
		}
		return ErrVersionConflict
	}
	return nil
}

// Find returns typed courses matching the given filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.TypedCourse, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var courses []models.TypedCourse
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Count returns the number of courses matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
