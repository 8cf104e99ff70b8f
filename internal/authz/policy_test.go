package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tiorionjames/dewlist/internal/model"
)

func ownTask(ownerID string) *model.TaskModel {
	return &model.TaskModel{ID: "t-1", OwnerID: ownerID, Status: model.StatusNew}
}

func TestAuthorizeMatrix(t *testing.T) {
	admin := Principal{ID: "a", Role: model.RoleAdmin}
	manager := Principal{ID: "m", Role: model.RoleManager}
	user := Principal{ID: "u", Role: model.RoleUser}

	userTask := ownTask(user.ID)
	foreignTask := ownTask("someone-else")

	tests := []struct {
		name    string
		p       Principal
		action  Action
		task    *model.TaskModel
		allowed bool
	}{
		// 管理员无条件通过
		{"admin delete any", admin, ActionDelete, foreignTask, true},
		{"admin approve any", admin, ActionApprove, foreignTask, true},
		{"admin view logs", admin, ActionViewAuditLog, nil, true},

		// 经理: 可审批和编辑任何任务,不可删除,转换仅限本人任务
		{"manager approve any", manager, ActionApprove, foreignTask, true},
		{"manager reject any", manager, ActionReject, foreignTask, true},
		{"manager update any", manager, ActionUpdate, foreignTask, true},
		{"manager read any", manager, ActionRead, foreignTask, true},
		{"manager delete denied", manager, ActionDelete, foreignTask, false},
		{"manager start foreign denied", manager, ActionStart, foreignTask, false},
		{"manager start own", manager, ActionStart, ownTask(manager.ID), true},

		// 普通用户: 只能操作本人任务,无管理动作
		{"user create", user, ActionCreate, nil, true},
		{"user read own", user, ActionRead, userTask, true},
		{"user read foreign denied", user, ActionRead, foreignTask, false},
		{"user start own", user, ActionStart, userTask, true},
		{"user complete own", user, ActionComplete, userTask, true},
		{"user end own", user, ActionEnd, userTask, true},
		{"user pause foreign denied", user, ActionPause, foreignTask, false},
		{"user update denied", user, ActionUpdate, userTask, false},
		{"user delete denied", user, ActionDelete, userTask, false},
		{"user approve own denied", user, ActionApprove, userTask, false},
		{"user reject own denied", user, ActionReject, userTask, false},
		{"user view logs denied", user, ActionViewAuditLog, nil, false},

		// selfOnly 动作缺少任务作用域时拒绝
		{"user start without task", user, ActionStart, nil, false},

		// 未知角色一律拒绝
		{"unknown role", Principal{ID: "x", Role: "superuser"}, ActionRead, userTask, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.p, tt.action, tt.task)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestAuthorizeAssigneeActsAsSelf(t *testing.T) {
	user := Principal{ID: "worker", Role: model.RoleUser}

	// 任务指派给 worker 时,worker 是责任人,即使不是创建者
	task := &model.TaskModel{ID: "t-2", OwnerID: "boss", AssignedTo: "worker", Status: model.StatusNew}
	assert.True(t, Authorize(user, ActionStart, task).Allowed)
	assert.True(t, Authorize(user, ActionRead, task).Allowed)

	// 创建者在指派后仍然保有操作权
	owner := Principal{ID: "boss", Role: model.RoleUser}
	assert.True(t, Authorize(owner, ActionPause, task).Allowed)
}

func TestSensitiveActions(t *testing.T) {
	assert.True(t, Sensitive(ActionDelete))
	assert.True(t, Sensitive(ActionApprove))
	assert.True(t, Sensitive(ActionReject))
	assert.True(t, Sensitive(ActionViewAuditLog))

	assert.False(t, Sensitive(ActionStart))
	assert.False(t, Sensitive(ActionCreate))
	assert.False(t, Sensitive(ActionRead))
}
