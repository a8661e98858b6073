package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Service names registered by the task module.
const (
	ServiceCreate = "create"
	ServiceList   = "list"
	ServiceGet    = "get"
	ServiceUpdate = "update"
	ServiceToggle = "toggle"
	ServiceDelete = "delete"
)

// Port defines the interface for task operations. This is the port
// other modules use to access task functionality. Every method takes
// the owner id as a non-optional argument.
type Port interface {
	Create(ctx context.Context, ownerID, title, description string) (*TaskResponse, error)
	List(ctx context.Context, ownerID, status string) (*ListTasksResponse, error)
	Get(ctx context.Context, ownerID string, taskID int64) (*TaskResponse, error)
	Update(ctx context.Context, ownerID string, taskID int64, title, description *string) (*TaskResponse, error)
	Toggle(ctx context.Context, ownerID string, taskID int64) (*TaskResponse, error)
	Delete(ctx context.Context, ownerID string, taskID int64) error
}

// Adapter implements Port using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// Compile-time interface check.
var _ Port = (*Adapter)(nil)

// NewAdapter creates a new task Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{
		container: container,
	}
}

// Create creates a task for the owner.
func (a *Adapter) Create(ctx context.Context, ownerID, title, description string) (*TaskResponse, error) {
	req := CreateTaskRequest{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
	}
	var resp TaskResponse
	if err := call(a, ctx, ServiceCreate, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List lists the owner's tasks with the given status filter.
func (a *Adapter) List(ctx context.Context, ownerID, status string) (*ListTasksResponse, error) {
	req := ListTasksRequest{
		OwnerID: ownerID,
		Status:  status,
	}
	var resp ListTasksResponse
	if err := call(a, ctx, ServiceList, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns one of the owner's tasks.
func (a *Adapter) Get(ctx context.Context, ownerID string, taskID int64) (*TaskResponse, error) {
	req := GetTaskRequest{
		OwnerID: ownerID,
		TaskID:  taskID,
	}
	var resp TaskResponse
	if err := call(a, ctx, ServiceGet, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update applies a partial update to one of the owner's tasks.
func (a *Adapter) Update(ctx context.Context, ownerID string, taskID int64, title, description *string) (*TaskResponse, error) {
	req := UpdateTaskRequest{
		OwnerID:     ownerID,
		TaskID:      taskID,
		Title:       title,
		Description: description,
	}
	var resp TaskResponse
	if err := call(a, ctx, ServiceUpdate, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Toggle flips the completion flag on one of the owner's tasks.
func (a *Adapter) Toggle(ctx context.Context, ownerID string, taskID int64) (*TaskResponse, error) {
	req := ToggleTaskRequest{
		OwnerID: ownerID,
		TaskID:  taskID,
	}
	var resp TaskResponse
	if err := call(a, ctx, ServiceToggle, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete permanently removes one of the owner's tasks.
func (a *Adapter) Delete(ctx context.Context, ownerID string, taskID int64) error {
	req := DeleteTaskRequest{
		OwnerID: ownerID,
		TaskID:  taskID,
	}
	var resp DeleteTaskResponse
	return call(a, ctx, ServiceDelete, &req, &resp)
}

// call invokes a task service through the container.
func call[T any](a *Adapter, ctx context.Context, name string, req any, resp *T) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		name,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", name, err)
	}
	return nil
}
