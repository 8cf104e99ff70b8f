package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tiorionjames/dewlist/internal/api"
	"github.com/tiorionjames/dewlist/internal/config"
	"github.com/tiorionjames/dewlist/internal/container"
	"github.com/tiorionjames/dewlist/internal/metrics"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the DewList API server.
The server will listen on the configured host and port,
and provide REST API interfaces for task lifecycle management.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// 2. 初始化日志
		logger, err := api.NewLoggerFromConfig(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// 3. 初始化容器
		ctr, err := container.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 4. 配置热更新,日志级别跟随配置变化
		watcher := config.NewConfigWatcher(cfg, configPath)
		watcher.OnConfigChange(func(updated *config.Config) {
			level, err := logrus.ParseLevel(updated.Log.Level)
			if err != nil {
				logger.WithError(err).Warn("invalid log level in updated config")
				return
			}
			api.SetLoggerLevel(level)
		})
		if err := watcher.Start(); err != nil {
			logger.WithError(err).Warn("config watcher disabled")
		}
		defer watcher.Stop()

		// 5. 初始化控制器与路由
		controllers := api.NewControllers(ctr.TaskService(), ctr.UserService())
		router := api.SetupRoutes(cfg, ctr.DB(), ctr.Tokens(), controllers)
		router.NoRoute(func(c *gin.Context) {
			api.Error(c, http.StatusNotFound, "route not found", "the requested route does not exist")
		})

		// 6. 启动服务器
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		// 定期上报数据库连接池指标
		statsDone := make(chan struct{})
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					metrics.UpdateDBStats(ctr.DB())
				case <-statsDone:
					return
				}
			}
		}()
		defer close(statsDone)

		go func() {
			logger.WithField("addr", addr).Info("server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Fatal("failed to start server")
			}
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server...")

		// 优雅关闭
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Fatal("server forced to shutdown")
		}

		logger.Info("server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// 服务器配置标志
	serverCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
}
