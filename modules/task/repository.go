package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/example/task-api/domain/task"
)

var (
	// ErrTaskNotFound is returned when no task matches the given id for
	// the given owner. A task that exists but belongs to a different
	// owner is indistinguishable from one that does not exist: both
	// surface as ErrTaskNotFound. This conflation prevents cross-tenant
	// resource enumeration and must be preserved.
	ErrTaskNotFound = errors.New("task not found")
	// ErrStoreUnavailable is returned on a transient store failure
	// (statement timeout, lost connection). Callers may retry, except
	// create, which is not idempotent.
	ErrStoreUnavailable = errors.New("task store unavailable")
)

// defaultStatementTimeout bounds every single store statement.
const defaultStatementTimeout = 5 * time.Second

// Repository handles task persistence using GORM.
//
// Every method takes the owner id as a non-optional argument, and every
// query predicate includes owner_id by construction. There is no method
// that can return or mutate a row without it.
type Repository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewRepository creates a new task Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:      db,
		timeout: defaultStatementTimeout,
	}
}

// Create inserts a new task for the owner and returns it with its
// assigned id. Timestamps are set here, in UTC, with
// created_at == updated_at.
func (r *Repository) Create(ctx context.Context, ownerID, title, description string) (*domain.Task, error) {
	ctx, cancel := r.statementContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	task := &domain.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, r.storeError("create", err)
	}
	return task, nil
}

// FindByOwner returns the owner's tasks, newest first, optionally
// narrowed by completion state.
func (r *Repository) FindByOwner(ctx context.Context, ownerID string, filter domain.Filter) ([]*domain.Task, error) {
	ctx, cancel := r.statementContext(ctx)
	defer cancel()

	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	switch filter {
	case domain.FilterPending:
		query = query.Where("completed = ?", false)
	case domain.FilterCompleted:
		query = query.Where("completed = ?", true)
	}

	var tasks []*domain.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, r.storeError("list", err)
	}
	return tasks, nil
}

// FindByID returns the owner's task with the given id.
func (r *Repository) FindByID(ctx context.Context, ownerID string, id int64) (*domain.Task, error) {
	ctx, cancel := r.statementContext(ctx)
	defer cancel()

	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, "owner_id = ? AND id = ?", ownerID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, r.storeError("find", err)
	}
	return &task, nil
}

// Update applies the supplied fields to the owner's task and refreshes
// updated_at. Nil fields are left unchanged.
func (r *Repository) Update(ctx context.Context, ownerID string, id int64, title, description *string) (*domain.Task, error) {
	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if title != nil {
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	return r.applyUpdates(ctx, ownerID, id, updates)
}

// SetCompleted sets the completion flag on the owner's task and
// refreshes updated_at.
func (r *Repository) SetCompleted(ctx context.Context, ownerID string, id int64, completed bool) (*domain.Task, error) {
	return r.applyUpdates(ctx, ownerID, id, map[string]any{
		"completed":  completed,
		"updated_at": time.Now().UTC(),
	})
}

// Delete removes the owner's task permanently. The Task entity carries
// no gorm.DeletedAt, so this is a hard delete with no retention.
func (r *Repository) Delete(ctx context.Context, ownerID string, id int64) error {
	ctx, cancel := r.statementContext(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return r.storeError("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// applyUpdates runs a single owner-scoped UPDATE and re-reads the row.
// RowsAffected == 0 means the row is absent or owned by someone else;
// both are ErrTaskNotFound.
func (r *Repository) applyUpdates(ctx context.Context, ownerID string, id int64, updates map[string]any) (*domain.Task, error) {
	uctx, cancel := r.statementContext(ctx)
	defer cancel()

	result := r.db.WithContext(uctx).
		Model(&domain.Task{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(updates)
	if result.Error != nil {
		return nil, r.storeError("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}

	return r.FindByID(ctx, ownerID, id)
}

// statementContext bounds a single statement with the repository timeout.
func (r *Repository) statementContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// storeError classifies a driver error. Timeouts and dropped
// connections are transient and surface as ErrStoreUnavailable.
func (r *Repository) storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}
	return fmt.Errorf("failed to %s task: %w", op, err)
}
