package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/task-api/domain/task"
)

// Module provides task management services backed by GORM.
type Module struct {
	db      *gorm.DB
	service *Service
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new task Module.
func NewModule() *Module {
	dbPath := os.Getenv("TASK_DB_PATH")
	if dbPath == "" {
		dbPath = "tasks.db"
	}
	return &Module{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "task"
}

// Start initializes the database connection and runs migrations.
func (m *Module) Start(_ context.Context) error {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	// The users table is owned by the external identity provider; only
	// the tasks table is migrated here.
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewService(NewRepository(db))

	log.Printf("[task] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop gracefully closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver":   "sqlite",
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service
// container. The framework prefixes the names with "services.task.".
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		ServiceCreate: func() error {
			return helper.RegisterTypedRequestReplyService(
				container, ServiceCreate, json.Unmarshal, json.Marshal, m.handleCreate)
		},
		ServiceList: func() error {
			return helper.RegisterTypedRequestReplyService(
				container, ServiceList, json.Unmarshal, json.Marshal, m.handleList)
		},
		ServiceGet: func() error {
			return helper.RegisterTypedRequestReplyService(
				container, ServiceGet, json.Unmarshal, json.Marshal, m.handleGet)
		},
		ServiceUpdate: func() error {
			return helper.RegisterTypedRequestReplyService(
				container, ServiceUpdate, json.Unmarshal, json.Marshal, m.handleUpdate)
		},
		ServiceToggle: func() error {
			return helper.RegisterTypedRequestReplyService(
				container, ServiceToggle, json.Unmarshal, json.Marshal, m.handleToggle)
		},
		ServiceDelete: func() error {
			return helper.RegisterTypedRequestReplyService(
				container, ServiceDelete, json.Unmarshal, json.Marshal, m.handleDelete)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[task] Registered services: services.task.{create,list,get,update,toggle,delete}")
	return nil
}

// handleCreate handles task creation.
func (m *Module) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Create(ctx, req.OwnerID, req.Title, req.Description)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

// handleList handles task listing.
func (m *Module) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.OwnerID, domain.ParseFilter(req.Status))
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(task))
	}
	return resp, nil
}

// handleGet handles single task retrieval.
func (m *Module) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Get(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

// handleUpdate handles partial task updates.
func (m *Module) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Update(ctx, req.OwnerID, req.TaskID, req.Title, req.Description)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

// handleToggle handles completion toggling.
func (m *Module) handleToggle(ctx context.Context, req ToggleTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Toggle(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

// handleDelete handles permanent task deletion.
func (m *Module) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.OwnerID, req.TaskID); err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.TaskID}, err
	}
	return DeleteTaskResponse{Deleted: true, ID: req.TaskID}, nil
}
