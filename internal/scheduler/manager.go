package scheduler

import (
	"github.com/blues/cfc/internal/clock"
	"github.com/blues/cfc/internal/config"
	"github.com/blues/cfc/internal/logger"
	"github.com/blues/cfc/internal/logic"
	"github.com/blues/cfc/internal/store"
	"github.com/go-co-op/gocron/v2"
)

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	store     *store.Store
	clock     clock.Clock
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(st *store.Store, clk clock.Clock, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		store:     st,
		clock:     clk,
		config:    cfg,
	}
}

// Start 启动任务管理器
func Start(st *store.Store, clk clock.Clock, cfg *config.Config) *Manager {
	manager := NewManager(st, clk, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	// 注册活动状态巡检任务
	m.RegisterCampaignStatusJob()
}

// RegisterCampaignStatusJob 注册活动状态巡检任务
func (m *Manager) RegisterCampaignStatusJob() {
	job := NewCampaignStatusJob(logic.NewCampaignLogic(m.store, m.clock), m.clock, m.config)
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
