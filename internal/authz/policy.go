package authz

import (
	"github.com/tiorionjames/dewlist/internal/model"
)

// Action 授权动作(闭合枚举)
type Action string

const (
	ActionCreate       Action = "create"
	ActionRead         Action = "read"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionStart        Action = "start"
	ActionPause        Action = "pause"
	ActionResume       Action = "resume"
	ActionEnd          Action = "end"
	ActionComplete     Action = "complete"
	ActionApprove      Action = "approve"
	ActionReject       Action = "reject"
	ActionViewAuditLog Action = "view-audit-log"
)

// Principal 已认证的操作主体
type Principal struct {
	ID   string
	Role string
}

// Decision 授权决策结果
type Decision struct {
	Allowed bool
	Reason  string
}

// allow 允许
func allow() Decision {
	return Decision{Allowed: true}
}

// deny 拒绝并附带原因
func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// permission 权限级别
type permission int

const (
	denied   permission = iota // 拒绝
	granted                    // 无条件允许
	selfOnly                   // 仅限任务责任人本人
)

// rolePermissions 角色权限表(表驱动,纯函数,可离库单测)
var rolePermissions = map[string]map[Action]permission{
	model.RoleAdmin: {
		ActionCreate: granted, ActionRead: granted, ActionUpdate: granted,
		ActionDelete: granted, ActionStart: granted, ActionPause: granted,
		ActionResume: granted, ActionEnd: granted, ActionComplete: granted,
		ActionApprove: granted, ActionReject: granted, ActionViewAuditLog: granted,
	},
	model.RoleManager: {
		ActionCreate: granted, ActionRead: granted, ActionUpdate: granted,
		ActionDelete: denied, ActionStart: selfOnly, ActionPause: selfOnly,
		ActionResume: selfOnly, ActionEnd: selfOnly, ActionComplete: selfOnly,
		ActionApprove: granted, ActionReject: granted, ActionViewAuditLog: granted,
	},
	model.RoleUser: {
		ActionCreate: granted, ActionRead: selfOnly, ActionUpdate: denied,
		ActionDelete: denied, ActionStart: selfOnly, ActionPause: selfOnly,
		ActionResume: selfOnly, ActionEnd: selfOnly, ActionComplete: selfOnly,
		ActionApprove: denied, ActionReject: denied, ActionViewAuditLog: denied,
	},
}

// Sensitive 判断动作是否为安全敏感动作
// 敏感动作的拒绝事件必须写入审计日志
func Sensitive(action Action) bool {
	switch action {
	case ActionDelete, ActionApprove, ActionReject, ActionViewAuditLog:
		return true
	}
	return false
}

// Authorize 授权决策
// 按角色权限表匹配,selfOnly 权限要求任务责任人与主体一致
// 非任务作用域的动作(create/view-audit-log)传入 nil 任务
func Authorize(p Principal, action Action, task *model.TaskModel) Decision {
	perms, ok := rolePermissions[p.Role]
	if !ok {
		return deny("not authorized")
	}

	perm, ok := perms[action]
	if !ok {
		return deny("not authorized")
	}

	switch perm {
	case granted:
		return allow()
	case selfOnly:
		if task == nil {
			return deny("not authorized")
		}
		if task.ActorID() == p.ID || task.OwnerID == p.ID {
			return allow()
		}
		return deny("not authorized")
	default:
		return deny("not authorized")
	}
}
