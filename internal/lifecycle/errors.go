package lifecycle

import (
	"errors"
	"fmt"
)

// 错误分类(传输层据此映射响应码)
var (
	ErrNotFound    = errors.New("not found")           // 任务/用户不存在或对调用者不可见
	ErrForbidden   = errors.New("not authorized")      // 角色或归属不匹配
	ErrConflict    = errors.New("conflict")            // 当前状态下转换非法
	ErrValidation  = errors.New("validation failed")   // 必填字段缺失或为空
	ErrPersistence = errors.New("persistence failure") // 事务写入失败,调用方可重试
)

// notFoundf 构造 NotFound 错误
func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// forbiddenf 构造 Forbidden 错误
func forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// conflictf 构造 Conflict 错误
func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// validationf 构造 Validation 错误
func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// persistencef 包装底层持久化错误
func persistencef(err error) error {
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
