package models

import "time"

// Project represents a row in the PostgreSQL projects table. FileCount is
// derived from the file link table, never stored.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	FileCount   int64     `json:"count_of_files"`
}

// ProjectFile is the metadata row for a file blob kept in MinIO. Files are
// attached to projects through a many-to-many link table.
type ProjectFile struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ObjectKey   string    `json:"-"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CreateProjectRequest is the JSON body for POST /api/v1/projects.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
