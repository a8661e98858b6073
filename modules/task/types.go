package task

import (
	"time"

	domain "github.com/example/task-api/domain/task"
)

// CreateTaskRequest is the request for the create service. OwnerID
// comes from the verified principal, never from client input.
type CreateTaskRequest struct {
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListTasksRequest is the request for the list service.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
	Status  string `json:"status"`
}

// ListTasksResponse is the response for the list service.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// GetTaskRequest is the request for the get service.
type GetTaskRequest struct {
	OwnerID string `json:"owner_id"`
	TaskID  int64  `json:"task_id"`
}

// UpdateTaskRequest is the request for the update service. Nil fields
// are left unchanged.
type UpdateTaskRequest struct {
	OwnerID     string  `json:"owner_id"`
	TaskID      int64   `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ToggleTaskRequest is the request for the toggle service.
type ToggleTaskRequest struct {
	OwnerID string `json:"owner_id"`
	TaskID  int64  `json:"task_id"`
}

// DeleteTaskRequest is the request for the delete service.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	TaskID  int64  `json:"task_id"`
}

// DeleteTaskResponse is the response for the delete service.
type DeleteTaskResponse struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

// TaskResponse is a task rendered for transport. Timestamps are UTC.
type TaskResponse struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// toTaskResponse converts a Task entity to a TaskResponse.
func toTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
