package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/user/cinedash/internal/config"
	"github.com/user/cinedash/internal/handler"
	"github.com/user/cinedash/internal/logging"
	"github.com/user/cinedash/internal/repository"
	"github.com/user/cinedash/internal/router"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()

	logger := logging.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if envErr != nil {
		logger.Info("未找到 .env 文件，使用系统环境变量")
	}

	// 初始化仓库
	repos := repository.NewRepositories(repository.NewDB(cfg.Roles))
	if cfg.SeedDemo {
		if err := repos.Seed(); err != nil {
			logger.Fatal("写入演示数据失败", zap.Error(err))
		}
		logger.Info("已写入演示数据",
			zap.String("admin", repository.DemoAdminEmail),
			zap.String("user", repository.DemoUserEmail))
	}

	// 初始化 Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handler.NewHandler(repos, cfg, logging.Component(logger, "handler"))
	r := router.NewEngine(h, logging.Component(logger, "http"))

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		logger.Info("服务器启动", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	logger.Info("服务器已退出")
}
