package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := NewTask(7, "t", "d")
	require.NoError(t, err)
	assert.Equal(t, int64(7), task.OwnerID)
	assert.Equal(t, "t", task.Title)
	assert.Equal(t, "d", task.Description)
	assert.False(t, task.IsCompleted, "new tasks start incomplete")
	assert.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	_, err = NewTask(7, "", "d")
	assert.ErrorIs(t, err, ErrEmptyTaskTitle)

	_, err = NewTask(7, "t", "   ")
	assert.ErrorIs(t, err, ErrEmptyTaskDescription)

	_, err = NewTask(0, "t", "d")
	assert.ErrorIs(t, err, ErrEmptyTaskOwner)
}

func TestTaskPatchApply(t *testing.T) {
	t.Parallel()

	completed := true
	newTitle := "renamed"
	empty := ""

	tests := []struct {
		name    string
		patch   TaskPatch
		want    Task
		wantErr error
	}{
		{
			name:  "only completion leaves text untouched",
			patch: TaskPatch{IsCompleted: &completed},
			want:  Task{Title: "t", Description: "d", IsCompleted: true},
		},
		{
			name:  "only title",
			patch: TaskPatch{Title: &newTitle},
			want:  Task{Title: "renamed", Description: "d"},
		},
		{
			name:    "empty title rejected",
			patch:   TaskPatch{Title: &empty},
			wantErr: ErrEmptyTaskTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			task := &Task{ID: 1, OwnerID: 2, Title: "t", Description: "d"}
			err := tt.patch.Apply(task)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Title, task.Title)
			assert.Equal(t, tt.want.Description, task.Description)
			assert.Equal(t, tt.want.IsCompleted, task.IsCompleted)
		})
	}
}

func TestTaskPatchIsEmpty(t *testing.T) {
	t.Parallel()

	done := false
	assert.True(t, TaskPatch{}.IsEmpty())
	assert.False(t, TaskPatch{IsCompleted: &done}.IsEmpty())
}

func TestTaskReplace(t *testing.T) {
	t.Parallel()

	task := &Task{ID: 1, OwnerID: 2, Title: "t", Description: "d", IsCompleted: true}
	require.NoError(t, task.Replace("t", "d2", false))
	assert.Equal(t, "t", task.Title)
	assert.Equal(t, "d2", task.Description)
	assert.False(t, task.IsCompleted)

	assert.ErrorIs(t, task.Replace("t", "", false), ErrEmptyTaskDescription)
}
