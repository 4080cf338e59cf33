package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/blues/cfc/internal/clock"
	"github.com/blues/cfc/internal/config"
	"github.com/blues/cfc/internal/logger"
	"github.com/blues/cfc/internal/logic"
	"github.com/blues/cfc/internal/model"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
)

// 巡检协程池的上限
const maxSweepWorkers = 8

// CampaignStatusJob 活动状态巡检任务
// 状态由 (deadline, amount_collected, target) 推导，任务只统计和记录，不写任何状态
type CampaignStatusJob struct {
	campaignLogic *logic.CampaignLogic
	clock         clock.Clock
	config        *config.Config
}

// NewCampaignStatusJob 创建活动状态巡检任务
func NewCampaignStatusJob(campaignLogic *logic.CampaignLogic, clk clock.Clock, cfg *config.Config) *CampaignStatusJob {
	return &CampaignStatusJob{
		campaignLogic: campaignLogic,
		clock:         clk,
		config:        cfg,
	}
}

// GetName 获取任务名称
func (j *CampaignStatusJob) GetName() string {
	return "campaign_status_sweeper"
}

// GetSchedule 获取调度配置
func (j *CampaignStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignStatusJob) Execute() {
	campaigns, err := j.campaignLogic.GetCampaigns()
	if err != nil {
		logger.Error("Failed to fetch campaigns: %v", err)
		return
	}
	if len(campaigns) == 0 {
		logger.Debug("No campaigns to sweep")
		return
	}

	workers := len(campaigns)
	if workers > maxSweepWorkers {
		workers = maxSweepWorkers
	}

	// 临时协程池并发巡检
	pool, err := ants.NewPool(workers)
	if err != nil {
		logger.Error("Failed to create sweep pool: %v", err)
		return
	}
	defer pool.Release()

	now := j.clock.Now()
	var open, closed, funded int64
	var wg sync.WaitGroup

	for i := range campaigns {
		campaign := &campaigns[i]
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			switch campaign.Status(now) {
			case model.CampaignStatusOpen:
				atomic.AddInt64(&open, 1)
			case model.CampaignStatusClosed:
				atomic.AddInt64(&closed, 1)
			}
			if campaign.Funded() {
				atomic.AddInt64(&funded, 1)
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit sweep task: %v", err)
		}
	}
	wg.Wait()

	logger.Info("活动状态巡检完成: 总数=%d 进行中=%d 已结束=%d 达标=%d",
		len(campaigns), atomic.LoadInt64(&open), atomic.LoadInt64(&closed), atomic.LoadInt64(&funded))
}
