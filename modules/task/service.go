package task

import (
	"context"
	"errors"
	"strings"

	domain "github.com/example/task-api/domain/task"
)

var (
	// ErrOwnerRequired is returned when a use case is invoked without an
	// owner id. Reaching the store without one is a defect one layer up.
	ErrOwnerRequired = errors.New("owner id is required")
	// ErrTitleRequired is returned when the title is empty after trimming.
	ErrTitleRequired = errors.New("title must not be empty")
	// ErrTitleTooLong is returned when the title exceeds 200 characters.
	ErrTitleTooLong = errors.New("title must be at most 200 characters")
	// ErrDescriptionTooLong is returned when the description exceeds 1000 characters.
	ErrDescriptionTooLong = errors.New("description must be at most 1000 characters")
	// ErrNoFieldsToUpdate is returned when an update supplies neither field.
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided")
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
)

// Service implements the task use cases. It validates input before
// persistence and delegates everything else to the Repository; it
// holds no task state across requests, so every mutation re-reads from
// the store and concurrent writers resolve last-write-wins.
//
// Ownership enforcement lives in exactly one place, the repository's
// owner predicate. A task owned by another principal therefore surfaces
// here as ErrTaskNotFound, never as a distinct "forbidden" outcome.
type Service struct {
	repo *Repository
}

// NewService creates a new task Service.
func NewService(repo *Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Create validates and persists a new task for the owner.
func (s *Service) Create(ctx context.Context, ownerID, title, description string) (*domain.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	description = strings.TrimSpace(description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, ownerID, title, description)
}

// List returns the owner's tasks, newest first, narrowed by the filter.
func (s *Service) List(ctx context.Context, ownerID string, filter domain.Filter) ([]*domain.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	return s.repo.FindByOwner(ctx, ownerID, filter)
}

// Get returns the owner's task with the given id.
func (s *Service) Get(ctx context.Context, ownerID string, id int64) (*domain.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	return s.repo.FindByID(ctx, ownerID, id)
}

// Update applies a partial update to the owner's task. At least one of
// title or description must be supplied; supplied fields are trimmed
// and validated.
func (s *Service) Update(ctx context.Context, ownerID string, id int64, title, description *string) (*domain.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if title == nil && description == nil {
		return nil, ErrNoFieldsToUpdate
	}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if err := validateTitle(trimmed); err != nil {
			return nil, err
		}
		title = &trimmed
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if err := validateDescription(trimmed); err != nil {
			return nil, err
		}
		description = &trimmed
	}

	return s.repo.Update(ctx, ownerID, id, title, description)
}

// Toggle flips the completion flag on the owner's task. This is a
// read-then-conditional-write; a concurrent toggle resolves
// last-write-wins.
func (s *Service) Toggle(ctx context.Context, ownerID string, id int64) (*domain.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	current, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.repo.SetCompleted(ctx, ownerID, id, !current.Completed)
}

// Delete removes the owner's task permanently.
func (s *Service) Delete(ctx context.Context, ownerID string, id int64) error {
	if ownerID == "" {
		return ErrOwnerRequired
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if len([]rune(title)) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if len([]rune(description)) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
