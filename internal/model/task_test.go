package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTask() *TaskModel {
	return &TaskModel{
		ID:      "task-1",
		Title:   "Write the report",
		OwnerID: "user-1",
		Status:  StatusNew,
	}
}

func TestTaskValidate(t *testing.T) {
	assert.NoError(t, validTask().Validate())

	noID := validTask()
	noID.ID = ""
	assert.Error(t, noID.Validate())

	blankTitle := validTask()
	blankTitle.Title = "   "
	assert.Error(t, blankTitle.Validate())

	noOwner := validTask()
	noOwner.OwnerID = ""
	assert.Error(t, noOwner.Validate())

	badStatus := validTask()
	badStatus.Status = "done"
	assert.Error(t, badStatus.Validate())

	badRecurrence := validTask()
	badRecurrence.Recurrence = "fortnightly"
	assert.Error(t, badRecurrence.Validate())
}

func TestTaskActorID(t *testing.T) {
	task := validTask()
	assert.Equal(t, "user-1", task.ActorID())

	task.AssignedTo = "user-2"
	assert.Equal(t, "user-2", task.ActorID())
}

func TestTaskActive(t *testing.T) {
	task := validTask()
	for status, want := range map[string]bool{
		StatusNew:             true,
		StatusInProgress:      true,
		StatusPaused:          true,
		StatusCompleted:       false,
		StatusPendingApproval: false,
		StatusApproved:        false,
	} {
		task.Status = status
		assert.Equal(t, want, task.Active(), status)
	}
}

func TestStatusAndRecurrenceEnums(t *testing.T) {
	assert.True(t, ValidStatus(StatusPendingApproval))
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))

	assert.True(t, ValidRecurrence(RecurrenceNone))
	assert.True(t, ValidRecurrence(RecurrenceMonthly))
	assert.False(t, ValidRecurrence("hourly"))
}

func TestPasswordResetExpired(t *testing.T) {
	now := time.Now().UTC()
	reset := &PasswordResetModel{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, reset.Expired(now))
	assert.True(t, reset.Expired(now.Add(2*time.Hour)))
}

func TestUserValidate(t *testing.T) {
	user := &UserModel{ID: "u-1", Username: "alice", Email: "alice@example.com", HashedPassword: "hash", Role: RoleUser}
	assert.NoError(t, user.Validate())

	user.Role = "root"
	assert.Error(t, user.Validate())
}
