package main

import (
	"github.com/blues/cfc/internal/clock"
	"github.com/blues/cfc/internal/config"
	"github.com/blues/cfc/internal/logger"
	"github.com/blues/cfc/internal/payment"
	"github.com/blues/cfc/internal/router"
	"github.com/blues/cfc/internal/scheduler"
	"github.com/blues/cfc/internal/store"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	initLogger(cfg.Log)
	defer logger.Sync()

	// 初始化存储
	st, err := store.Open(cfg.Store)
	if err != nil {
		logger.Fatal("Failed to open store: %v", err)
	}
	defer st.Close()

	// 初始化支付客户端
	payClient, err := payment.Init(cfg.Chain)
	if err != nil {
		logger.Fatal("Failed to initialize payment client: %v", err)
	}

	clk := clock.SystemClock{}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(st, payClient, clk, cfg)

	// 启动定时任务
	manager := scheduler.Start(st, clk, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

// initLogger 按配置初始化默认日志器
func initLogger(cfg config.LogConfig) {
	level := logger.ParseLogLevel(cfg.Level)

	if cfg.Output == "file" {
		l, err := logger.NewWithFileRotation(level, cfg.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
		return
	}

	l, err := logger.New(level)
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(l)
}
