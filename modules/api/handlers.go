package api

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/task-api/domain/principal"
	"github.com/example/task-api/modules/task"
)

// Handlers contains the HTTP handlers for the task API.
type Handlers struct {
	tasks task.Port
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(tasks task.Port) *Handlers {
	return &Handlers{
		tasks: tasks,
	}
}

// CreateTask handles POST /api/:ownerID/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "Title is required")
	}

	// Owner comes from the verified token, never from client input.
	resp, err := h.tasks.Create(c.UserContext(), p.ID, req.Title, req.Description)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toAPITask(resp))
}

// ListTasks handles GET /api/:ownerID/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	status := c.Query("status", "all")
	resp, err := h.tasks.List(c.UserContext(), p.ID, status)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	list := TaskListResponse{
		Tasks: make([]TaskResponse, 0, len(resp.Tasks)),
		Total: resp.Total,
	}
	for i := range resp.Tasks {
		list.Tasks = append(list.Tasks, toAPITask(&resp.Tasks[i]))
	}
	return c.Status(fiber.StatusOK).JSON(list)
}

// GetTask handles GET /api/:ownerID/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	id, ok := taskID(c)
	if !ok {
		return notFound(c)
	}

	resp, err := h.tasks.Get(c.UserContext(), p.ID, id)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(toAPITask(resp))
}

// UpdateTask handles PUT /api/:ownerID/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	id, ok := taskID(c)
	if !ok {
		return notFound(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.tasks.Update(c.UserContext(), p.ID, id, req.Title, req.Description)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(toAPITask(resp))
}

// ToggleTask handles PATCH /api/:ownerID/tasks/:id/complete.
func (h *Handlers) ToggleTask(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	id, ok := taskID(c)
	if !ok {
		return notFound(c)
	}

	resp, err := h.tasks.Toggle(c.UserContext(), p.ID, id)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(toAPITask(resp))
}

// DeleteTask handles DELETE /api/:ownerID/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	p, ok := principalFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	id, ok := taskID(c)
	if !ok {
		return notFound(c)
	}

	if err := h.tasks.Delete(c.UserContext(), p.ID, id); err != nil {
		return h.handleTaskError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleTaskError maps task service errors to HTTP responses. Errors
// cross the service container as strings, so known sentinel messages
// are matched here; anything unrecognized is logged and answered with
// a generic 500.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "task not found"):
		return notFound(c)
	case strings.Contains(errStr, "unavailable"):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Detail: "Service temporarily unavailable, please retry",
		})
	case strings.Contains(errStr, "title must not be empty"):
		return badRequest(c, "Title must not be empty")
	case strings.Contains(errStr, "title must be at most"):
		return badRequest(c, "Title must be at most 200 characters")
	case strings.Contains(errStr, "description must be at most"):
		return badRequest(c, "Description must be at most 1000 characters")
	case strings.Contains(errStr, "at least one field"):
		return badRequest(c, "At least one field (title or description) must be provided")
	case strings.Contains(errStr, "rate limit exceeded"):
		return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
			Detail: "Too many requests, please slow down",
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Detail: "An internal error occurred",
		})
	}
}

// principalFromCtx retrieves the principal stored by AuthMiddleware.
func principalFromCtx(c *fiber.Ctx) (principal.Principal, bool) {
	p, ok := c.Locals(PrincipalContextKey).(principal.Principal)
	return p, ok
}

// taskID parses the :id path segment. A non-numeric id cannot match
// any row, so the caller answers 404, same as a missing row.
func taskID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Detail: "Task not found",
	})
}

func badRequest(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Detail: detail,
	})
}

// toAPITask converts a service-layer task response to the HTTP shape.
func toAPITask(t *task.TaskResponse) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
