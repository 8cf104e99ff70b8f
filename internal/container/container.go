package container

import (
	"fmt"
	"time"

	"github.com/tiorionjames/dewlist/internal/api"
	"github.com/tiorionjames/dewlist/internal/auth"
	"github.com/tiorionjames/dewlist/internal/config"
	"github.com/tiorionjames/dewlist/internal/database"
	"github.com/tiorionjames/dewlist/internal/lifecycle"
	"github.com/tiorionjames/dewlist/internal/service"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理所有应用依赖,包括数据库、引擎和服务
type Container struct {
	db          *gorm.DB
	tokens      *auth.TokenManager
	engine      *lifecycle.Engine
	taskService service.TaskService
	userService service.UserService
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化数据库(带重试机制)
	// 默认重试 3 次,初始间隔 1 秒,指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 2. 初始化 Token 管理器
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Second)

	// 3. 初始化生命周期引擎
	engine := lifecycle.NewEngine(db)

	// 4. 初始化服务层
	notifier := service.NewLogNotifier(api.GetLogger())
	taskService := service.NewTaskService(engine)
	userService := service.NewUserService(db, tokens, notifier, time.Duration(cfg.Auth.ResetTokenTTL)*time.Second)

	return &Container{
		db:          db,
		tokens:      tokens,
		engine:      engine,
		taskService: taskService,
		userService: userService,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Tokens 获取 Token 管理器
func (c *Container) Tokens() *auth.TokenManager {
	return c.tokens
}

// Engine 获取生命周期引擎
func (c *Container) Engine() *lifecycle.Engine {
	return c.engine
}

// TaskService 获取任务服务
func (c *Container) TaskService() service.TaskService {
	return c.taskService
}

// UserService 获取用户服务
func (c *Container) UserService() service.UserService {
	return c.userService
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return nil
}
