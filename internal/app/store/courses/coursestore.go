// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"
	"errors"
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

// Store wraps the legacy course collection. Documents here keep the
// original flat schema; typed views are produced at read time by
// system/classify, never written back.
type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateTitle = errors.New("a course with this title already exists")

	// ErrVersionConflict is returned when a curriculum save loses a
	// read-modify-write race: the stored curriculum_version no longer
	// matches the version the caller read.
	ErrVersionConflict = errors.New("curriculum was modified by another request")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.LegacyCollection)}
}

// Create inserts a new legacy course, setting TitleCI, timestamps, and
// scrubbing rich-text content. The curriculum is re-indexed by the caller
// before Create.
func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
	now := time.Now().UTC()

	c.ID = primitive.NewObjectID()
	c.TitleCI = text.Fold(c.Title)
	c.Description = sanitize.ScrubRichText(c.Description)
	if c.Status == "" {
		c.Status = models.StatusDraft
	}
	c.CreatedAt = now
	c.UpdatedAt = &now

	if strings.TrimSpace(c.Title) == "" {
		return models.Course{}, mongo.CommandError{Message: "title is required"}
	}

	_, err := s.c.InsertOne(ctx, c)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Course{}, ErrDuplicateTitle
		}
		return models.Course{}, err
	}
	return c, nil
}

// Update modifies mutable fields and refreshes UpdatedAt. Curriculum is not
// touched here; curriculum writes go through SaveCurriculum so the version
// check applies.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Course) error {
	set := bson.M{}

	if strings.TrimSpace(mut.Title) != "" {
		set["title"] = mut.Title
		set["title_ci"] = text.Fold(mut.Title)
	}
	if mut.Description != "" {
		set["description"] = sanitize.ScrubRichText(mut.Description)
	}
	if mut.ClassType != "" {
		set["class_type"] = mut.ClassType
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
	if mut.CourseSchedule != nil {
		set["course_schedule"] = mut.CourseSchedule
	}
	if mut.DoubtSessionSchedule != nil {
		set["doubt_session_schedule"] = mut.DoubtSessionSchedule
	}
	if mut.AccessType != "" {
		set["access_type"] = mut.AccessType
	}
	if mut.AccessDuration != "" {
		set["access_duration"] = mut.AccessDuration
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

// GetByID returns a legacy course by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error) {
	var c models.Course
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		return models.Course{}, err
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
// on curriculum_version. expectedVersion is the version the caller read
// before mutating the tree. A lost race returns ErrVersionConflict; a
// missing course returns mongo.ErrNoDocuments.
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
		// Distinguish a stale version from a missing course.
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

// Find returns courses matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Course, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var courses []models.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Count returns the number of courses matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Aggregate runs an aggregation pipeline against the legacy collection.
// Facet computation lives in store/queries/catalogsearch and builds its
// pipelines there; this is the raw escape hatch it uses.
func (s *Store) Aggregate(ctx context.Context, pipeline []bson.M) (*mongo.Cursor, error) {
	return s.c.Aggregate(ctx, pipeline)
}
