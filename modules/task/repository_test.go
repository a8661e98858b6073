package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/task-api/domain/task"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedTask inserts a task directly, bypassing the repository, so tests
// can control timestamps.
func seedTask(t *testing.T, db *gorm.DB, ownerID, title string, completed bool, createdAt time.Time) *domain.Task {
	t.Helper()

	task := &domain.Task{
		OwnerID:   ownerID,
		Title:     title,
		Completed: completed,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return task
}

func TestRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ownerID := uuid.New().String()

	task, err := repo.Create(context.Background(), ownerID, "Buy groceries", "Milk, eggs")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.ID == 0 {
		t.Error("expected assigned id, got 0")
	}
	if task.OwnerID != ownerID {
		t.Errorf("OwnerID = %q, want %q", task.OwnerID, ownerID)
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("CreatedAt = %v, UpdatedAt = %v, want equal", task.CreatedAt, task.UpdatedAt)
	}
	if task.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", task.CreatedAt.Location())
	}

	var found domain.Task
	if err := db.First(&found, "id = ?", task.ID).Error; err != nil {
		t.Fatalf("failed to find created task: %v", err)
	}
	if found.Title != "Buy groceries" {
		t.Errorf("title = %q, want %q", found.Title, "Buy groceries")
	}
}

func TestRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()
	other := uuid.New().String()

	task := seedTask(t, db, owner, "Mine", false, time.Now().UTC())

	t.Run("own task", func(t *testing.T) {
		found, err := repo.FindByID(context.Background(), owner, task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.ID != task.ID {
			t.Errorf("id = %d, want %d", found.ID, task.ID)
		}
	})

	t.Run("non-existent task", func(t *testing.T) {
		_, err := repo.FindByID(context.Background(), owner, 99999)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("another owner's task is indistinguishable from absent", func(t *testing.T) {
		_, err := repo.FindByID(context.Background(), other, task.ID)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestRepository_FindByOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()
	other := uuid.New().String()

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	oldest := seedTask(t, db, owner, "oldest", true, base)
	middle := seedTask(t, db, owner, "middle", false, base.Add(time.Hour))
	newest := seedTask(t, db, owner, "newest", false, base.Add(2*time.Hour))
	seedTask(t, db, other, "not mine", false, base.Add(3*time.Hour))

	t.Run("all, newest first", func(t *testing.T) {
		tasks, err := repo.FindByOwner(context.Background(), owner, domain.FilterAll)
		if err != nil {
			t.Fatalf("FindByOwner() error = %v", err)
		}
		if len(tasks) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(tasks))
		}
		wantOrder := []int64{newest.ID, middle.ID, oldest.ID}
		for i, want := range wantOrder {
			if tasks[i].ID != want {
				t.Errorf("tasks[%d].ID = %d, want %d", i, tasks[i].ID, want)
			}
		}
	})

	t.Run("pending", func(t *testing.T) {
		tasks, err := repo.FindByOwner(context.Background(), owner, domain.FilterPending)
		if err != nil {
			t.Fatalf("FindByOwner() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(tasks))
		}
		for _, task := range tasks {
			if task.Completed {
				t.Errorf("pending filter returned completed task %d", task.ID)
			}
		}
	})

	t.Run("completed", func(t *testing.T) {
		tasks, err := repo.FindByOwner(context.Background(), owner, domain.FilterCompleted)
		if err != nil {
			t.Fatalf("FindByOwner() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != oldest.ID {
			t.Errorf("completed filter = %v, want just task %d", tasks, oldest.ID)
		}
	})

	t.Run("empty for unknown owner", func(t *testing.T) {
		tasks, err := repo.FindByOwner(context.Background(), uuid.New().String(), domain.FilterAll)
		if err != nil {
			t.Fatalf("FindByOwner() error = %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected 0 tasks, got %d", len(tasks))
		}
	})
}

func TestRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()
	other := uuid.New().String()

	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	task := seedTask(t, db, owner, "Original", false, created)

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		description := "updated description"
		updated, err := repo.Update(context.Background(), owner, task.ID, nil, &description)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Title != "Original" {
			t.Errorf("title = %q, want unchanged %q", updated.Title, "Original")
		}
		if updated.Description != description {
			t.Errorf("description = %q, want %q", updated.Description, description)
		}
		if !updated.UpdatedAt.After(updated.CreatedAt) {
			t.Errorf("UpdatedAt = %v, want after CreatedAt %v", updated.UpdatedAt, updated.CreatedAt)
		}
	})

	t.Run("another owner's update is not found", func(t *testing.T) {
		title := "hijacked"
		_, err := repo.Update(context.Background(), other, task.ID, &title, nil)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}

		var found domain.Task
		if err := db.First(&found, "id = ?", task.ID).Error; err != nil {
			t.Fatalf("failed to re-read task: %v", err)
		}
		if found.Title != "Original" {
			t.Errorf("title = %q, cross-owner update must not stick", found.Title)
		}
	})
}

func TestRepository_SetCompleted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()

	task := seedTask(t, db, owner, "Toggle me", false, time.Now().UTC().Add(-time.Minute))

	updated, err := repo.SetCompleted(context.Background(), owner, task.ID, true)
	if err != nil {
		t.Fatalf("SetCompleted() error = %v", err)
	}
	if !updated.Completed {
		t.Error("expected task to be completed")
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", updated.UpdatedAt, task.UpdatedAt)
	}

	_, err = repo.SetCompleted(context.Background(), uuid.New().String(), task.ID, false)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for other owner, got %v", err)
	}
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New().String()
	other := uuid.New().String()

	task := seedTask(t, db, owner, "To be deleted", false, time.Now().UTC())

	t.Run("another owner's delete is not found and leaves the row", func(t *testing.T) {
		err := repo.Delete(context.Background(), other, task.ID)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}

		var count int64
		db.Model(&domain.Task{}).Where("id = ?", task.ID).Count(&count)
		if count != 1 {
			t.Errorf("row count = %d, want 1", count)
		}
	})

	t.Run("hard delete", func(t *testing.T) {
		if err := repo.Delete(context.Background(), owner, task.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		// No deleted_at column: the row must be gone entirely.
		var count int64
		db.Unscoped().Model(&domain.Task{}).Where("id = ?", task.ID).Count(&count)
		if count != 0 {
			t.Errorf("row count = %d, want 0 after hard delete", count)
		}

		_, err := repo.FindByID(context.Background(), owner, task.ID)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound after delete, got %v", err)
		}
	})

	t.Run("delete non-existent task", func(t *testing.T) {
		err := repo.Delete(context.Background(), owner, 99999)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}
