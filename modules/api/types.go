package api

import "time"

// CreateTaskRequest is the body of POST /api/:ownerID/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest is the body of PUT /api/:ownerID/tasks/:id. Absent
// fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// TaskResponse is a task rendered to the client. Timestamps are UTC
// ISO-8601.
type TaskResponse struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskListResponse is the body of GET /api/:ownerID/tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// ErrorResponse is the uniform error body. Every error response carries
// a single human-readable detail string and nothing else.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
