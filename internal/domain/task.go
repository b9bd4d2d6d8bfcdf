package domain

import (
	"fmt"
	"strings"
	"time"
)

// Common validation errors for Task
var (
	ErrEmptyTaskTitle       = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrEmptyTaskDescription = fmt.Errorf("%w: description cannot be empty", ErrValidation)
	ErrEmptyTaskOwner       = fmt.Errorf("%w: task owner cannot be empty", ErrValidation)
)

// Task is a single to-do item. It always belongs to exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates an incomplete Task for the given owner.
// The ID is assigned by the store on insert.
func NewTask(ownerID int64, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.OwnerID <= 0 {
		return ErrEmptyTaskOwner
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyTaskDescription
	}
	return nil
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

// IsEmpty reports whether the patch carries no fields.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.IsCompleted == nil
}

// Apply copies the present fields onto t and revalidates it.
func (p TaskPatch) Apply(t *Task) error {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	return t.Validate()
}

// Replace overwrites all mutable fields unconditionally and revalidates t.
func (t *Task) Replace(title, description string, isCompleted bool) error {
	t.Title = title
	t.Description = description
	t.IsCompleted = isCompleted
	return t.Validate()
}
