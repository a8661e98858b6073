package task

import (
	"time"
)

// Task represents a single todo item owned by exactly one principal.
//
// OwnerID is set from the verified token at creation and never
// reassigned. Timestamps are managed explicitly by the service layer
// (always UTC), so GORM's automatic time tracking is disabled.
type Task struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     string    `gorm:"type:text;not null;index;index:idx_tasks_owner_completed,priority:1" json:"owner_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:1000" json:"description"`
	Completed   bool      `gorm:"not null;default:false;index:idx_tasks_owner_completed,priority:2" json:"completed"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Filter narrows a task listing by completion state.
type Filter string

// Supported listing filters. Anything else is treated as FilterAll.
const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter normalizes a client-supplied status string to a Filter.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterPending:
		return FilterPending
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}
