package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "NEW"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a single work item stored in MongoDB. Project and assignee are
// referenced by their PostgreSQL ids.
type Task struct {
	ID          primitive.ObjectID `json:"id"                 bson:"_id,omitempty"`
	Title       string             `json:"title"              bson:"title"`
	Description string             `json:"description"        bson:"description"`
	Status      TaskStatus         `json:"status"             bson:"status"`
	Tags        []string           `json:"tags"               bson:"tags"`
	ProjectID   int64              `json:"project_id"         bson:"project_id"`
	AssigneeID  int64              `json:"assignee_id"        bson:"assignee_id"`
	Deadline    *time.Time         `json:"deadline,omitempty" bson:"deadline,omitempty"`
	CreatedAt   time.Time          `json:"created_at"         bson:"created_at"`
}

// Tag is a label that tasks reference by name.
type Tag struct {
	ID   primitive.ObjectID `json:"id"   bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
}

// CreateTaskRequest is the JSON body for POST /api/v1/tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags"`
	ProjectID   int64      `json:"project_id"`
	AssigneeID  int64      `json:"assignee_id"`
	Deadline    *time.Time `json:"deadline"`
}
