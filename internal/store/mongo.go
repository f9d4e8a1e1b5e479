package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamtrack/backend/internal/models"
)

// MongoStore handles task and tag CRUD in MongoDB.
type MongoStore struct {
	tasks *mongo.Collection
	tags  *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		tasks: db.Collection("tasks"),
		tags:  db.Collection("tags"),
	}
}

func (s *MongoStore) InsertTask(ctx context.Context, t *models.Task) (string, error) {
	t.CreatedAt = time.Now()
	res, err := s.tasks.InsertOne(ctx, t)
	if err != nil {
		return "", fmt.Errorf("mongo insert task: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// ListTasks returns tasks newest-first; projectID 0 means no filter.
func (s *MongoStore) ListTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	filter := bson.M{}
	if projectID != 0 {
		filter["project_id"] = projectID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *MongoStore) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var t models.Task
	if err := s.tasks.FindOne(ctx, bson.M{"_id": oid}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *MongoStore) InsertTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := models.Tag{Name: name}
	res, err := s.tags.InsertOne(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("mongo insert tag: %w", err)
	}
	tag.ID = res.InsertedID.(primitive.ObjectID)
	return &tag, nil
}

func (s *MongoStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.tags.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tags []models.Tag
	if err := cur.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *MongoStore) GetTagByID(ctx context.Context, id string) (*models.Tag, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var tag models.Tag
	if err := s.tags.FindOne(ctx, bson.M{"_id": oid}).Decode(&tag); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}
