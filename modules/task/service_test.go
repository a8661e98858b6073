package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/example/task-api/domain/task"
)

func setupService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(setupTestDB(t))
	return NewService(repo), repo
}

func TestService_Create_TrimsTitle(t *testing.T) {
	service, _ := setupService(t)
	owner := uuid.New().String()

	task, err := service.Create(context.Background(), owner, "  Buy groceries  ", "  Milk, eggs  ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.Title != "Buy groceries" {
		t.Errorf("title = %q, want trimmed %q", task.Title, "Buy groceries")
	}
	if task.Description != "Milk, eggs" {
		t.Errorf("description = %q, want trimmed %q", task.Description, "Milk, eggs")
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("CreatedAt = %v, UpdatedAt = %v, want equal on create", task.CreatedAt, task.UpdatedAt)
	}
}

func TestService_Create_Validation(t *testing.T) {
	service, repo := setupService(t)
	owner := uuid.New().String()

	tests := []struct {
		name        string
		title       string
		description string
		wantErr     error
	}{
		{
			name:    "empty title",
			title:   "",
			wantErr: ErrTitleRequired,
		},
		{
			name:    "whitespace-only title",
			title:   "   \t  ",
			wantErr: ErrTitleRequired,
		},
		{
			name:    "title too long",
			title:   strings.Repeat("x", 201),
			wantErr: ErrTitleTooLong,
		},
		{
			name:        "description too long",
			title:       "valid",
			description: strings.Repeat("d", 1001),
			wantErr:     ErrDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), owner, tt.title, tt.description)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Rejected input must not leave rows behind.
	tasks, err := repo.FindByOwner(context.Background(), owner, domain.FilterAll)
	if err != nil {
		t.Fatalf("FindByOwner() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no persisted tasks after validation failures, got %d", len(tasks))
	}
}

func TestService_Create_BoundaryLengths(t *testing.T) {
	service, _ := setupService(t)
	owner := uuid.New().String()

	title := strings.Repeat("t", 200)
	description := strings.Repeat("d", 1000)

	task, err := service.Create(context.Background(), owner, title, description)
	if err != nil {
		t.Fatalf("Create() at max lengths error = %v", err)
	}
	if task.Title != title {
		t.Error("200-char title should be stored unchanged")
	}
}

func TestService_Create_RequiresOwner(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.Create(context.Background(), "", "title", "")
	if !errors.Is(err, ErrOwnerRequired) {
		t.Errorf("expected ErrOwnerRequired, got %v", err)
	}
}

func TestService_Update_Partial(t *testing.T) {
	service, _ := setupService(t)
	owner := uuid.New().String()

	created, err := service.Create(context.Background(), owner, "Original title", "original")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("description only", func(t *testing.T) {
		description := "updated"
		updated, err := service.Update(context.Background(), owner, created.ID, nil, &description)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Title != "Original title" {
			t.Errorf("title = %q, want unchanged", updated.Title)
		}
		if updated.Description != "updated" {
			t.Errorf("description = %q, want %q", updated.Description, "updated")
		}
		if !updated.UpdatedAt.After(created.UpdatedAt) {
			t.Errorf("UpdatedAt = %v, want after %v", updated.UpdatedAt, created.UpdatedAt)
		}
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := service.Update(context.Background(), owner, created.ID, nil, nil)
		if !errors.Is(err, ErrNoFieldsToUpdate) {
			t.Errorf("expected ErrNoFieldsToUpdate, got %v", err)
		}
	})

	t.Run("supplied title is validated", func(t *testing.T) {
		empty := "   "
		_, err := service.Update(context.Background(), owner, created.ID, &empty, nil)
		if !errors.Is(err, ErrTitleRequired) {
			t.Errorf("expected ErrTitleRequired, got %v", err)
		}
	})
}

func TestService_Toggle_RoundTrip(t *testing.T) {
	service, _ := setupService(t)
	owner := uuid.New().String()

	created, err := service.Create(context.Background(), owner, "Toggle me", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	once, err := service.Toggle(context.Background(), owner, created.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !once.Completed {
		t.Error("first toggle should complete the task")
	}
	if !once.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want strictly after %v", once.UpdatedAt, created.UpdatedAt)
	}

	time.Sleep(2 * time.Millisecond)
	twice, err := service.Toggle(context.Background(), owner, created.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if twice.Completed != created.Completed {
		t.Errorf("double toggle: completed = %v, want original %v", twice.Completed, created.Completed)
	}
	if !twice.UpdatedAt.After(once.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want strictly after %v", twice.UpdatedAt, once.UpdatedAt)
	}
}

func TestService_OwnerIsolation(t *testing.T) {
	service, _ := setupService(t)
	ownerA := uuid.New().String()
	ownerB := uuid.New().String()

	task, err := service.Create(context.Background(), ownerB, "B's task", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("get", func(t *testing.T) {
		_, err := service.Get(context.Background(), ownerA, task.ID)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		title := "stolen"
		_, err := service.Update(context.Background(), ownerA, task.ID, &title, nil)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("toggle", func(t *testing.T) {
		_, err := service.Toggle(context.Background(), ownerA, task.ID)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		err := service.Delete(context.Background(), ownerA, task.ID)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	// B still sees the task untouched.
	got, err := service.Get(context.Background(), ownerB, task.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "B's task" || got.Completed {
		t.Errorf("task mutated by another owner: %+v", got)
	}
}

func TestService_DeleteThenGet(t *testing.T) {
	service, _ := setupService(t)
	owner := uuid.New().String()

	task, err := service.Create(context.Background(), owner, "Short-lived", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := service.Delete(context.Background(), owner, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err = service.Get(context.Background(), owner, task.ID)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound after delete, got %v", err)
	}
}

func TestService_List_FilterNormalization(t *testing.T) {
	service, _ := setupService(t)
	owner := uuid.New().String()

	if _, err := service.Create(context.Background(), owner, "one", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Unknown filter values behave like "all".
	tasks, err := service.List(context.Background(), owner, domain.ParseFilter("bogus"))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(tasks))
	}
}
