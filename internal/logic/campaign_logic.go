package logic

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/blues/cfc/internal/clock"
	"github.com/blues/cfc/internal/logger"
	"github.com/blues/cfc/internal/model"
	"github.com/blues/cfc/internal/store"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/ethereum/go-ethereum/common"
)

// CampaignLogic 活动业务逻辑：ID分配、计数与查询
type CampaignLogic struct {
	store *store.Store
	clock clock.Clock
}

// NewCampaignLogic 创建活动业务逻辑
func NewCampaignLogic(s *store.Store, c clock.Clock) *CampaignLogic {
	return &CampaignLogic{store: s, clock: c}
}

// mapStoreErr 存储层的数据损坏归入注册表损坏
func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrCorrupt) {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return err
}

// CreateCampaign 创建活动并分配ID
// ID取当前计数器值，记录写入和计数器自增在同一个事务内提交，
// 并发创建不会拿到相同的ID
func (l *CampaignLogic) CreateCampaign(owner common.Address, title, description, image string, target *big.Int, deadline uint64) (uint64, error) {
	if deadline <= l.clock.Now() {
		return 0, ErrInvalidDeadline
	}
	if target == nil || target.Sign() <= 0 {
		return 0, ErrInvalidTarget
	}

	campaign := model.NewCampaign(owner, title, description, image, target, deadline)
	data, err := campaign.Encode()
	if err != nil {
		return 0, fmt.Errorf("序列化活动记录失败: %w", err)
	}

	var id uint64
	err = l.store.Update(func(txn *badger.Txn) error {
		count, err := store.GetCounter(txn)
		if err != nil {
			return mapStoreErr(err)
		}
		id = count

		if err := store.Set(txn, store.CampaignKey(id), data); err != nil {
			return err
		}
		return store.SetCounter(txn, count+1)
	})
	if err != nil {
		return 0, fmt.Errorf("创建活动失败: %w", err)
	}

	logger.Info("创建活动成功: id=%d owner=%s target=%s deadline=%d",
		id, owner.Hex(), target.String(), deadline)

	return id, nil
}

// CampaignCount 已创建的活动总数
func (l *CampaignLogic) CampaignCount() (uint64, error) {
	var count uint64
	err := l.store.View(func(txn *badger.Txn) error {
		var err error
		count, err = store.GetCounter(txn)
		return mapStoreErr(err)
	})
	if err != nil {
		return 0, fmt.Errorf("读取活动计数失败: %w", err)
	}
	return count, nil
}

// GetCampaign 获取活动详情
func (l *CampaignLogic) GetCampaign(id uint64) (*model.Campaign, error) {
	var campaign *model.Campaign
	err := l.store.View(func(txn *badger.Txn) error {
		count, err := store.GetCounter(txn)
		if err != nil {
			return mapStoreErr(err)
		}
		if id >= count {
			return ErrCampaignNotFound
		}

		data, err := store.Get(txn, store.CampaignKey(id))
		if err != nil {
			if errors.Is(err, store.ErrKeyNotFound) {
				return ErrCampaignNotFound
			}
			return err
		}

		campaign, err = model.DecodeCampaign(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

// GetDonators 获取活动的捐款人与金额两个平行序列，按到账顺序返回
func (l *CampaignLogic) GetDonators(id uint64) ([]common.Address, []*big.Int, error) {
	campaign, err := l.GetCampaign(id)
	if err != nil {
		return nil, nil, err
	}
	return campaign.Donators, campaign.Donations, nil
}

// GetCampaigns 按ID升序返回全部活动
// 计数器范围内缺失记录属于注册表损坏，直接报错
func (l *CampaignLogic) GetCampaigns() ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := l.store.View(func(txn *badger.Txn) error {
		count, err := store.GetCounter(txn)
		if err != nil {
			return mapStoreErr(err)
		}

		campaigns = make([]model.Campaign, 0, count)
		for id := uint64(0); id < count; id++ {
			data, err := store.Get(txn, store.CampaignKey(id))
			if err != nil {
				if errors.Is(err, store.ErrKeyNotFound) {
					return fmt.Errorf("%w: 活动 %d 缺失", ErrCorruptState, id)
				}
				return err
			}
			campaign, err := model.DecodeCampaign(data)
			if err != nil {
				return fmt.Errorf("%w: 活动 %d 解码失败: %v", ErrCorruptState, id, err)
			}
			campaigns = append(campaigns, *campaign)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetCampaignStats 获取单个活动的统计信息
func (l *CampaignLogic) GetCampaignStats(id uint64) (map[string]interface{}, error) {
	campaign, err := l.GetCampaign(id)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now()

	// 计算完成百分比
	completionPercentage := float64(0)
	if campaign.Target.Sign() > 0 {
		collected, _ := new(big.Float).SetInt(campaign.AmountCollected).Float64()
		target, _ := new(big.Float).SetInt(campaign.Target).Float64()
		completionPercentage = collected / target * 100
	}

	// 去重统计捐款人
	uniqueDonators := make(map[common.Address]struct{}, len(campaign.Donators))
	for _, donator := range campaign.Donators {
		uniqueDonators[donator] = struct{}{}
	}

	// 计算剩余时间
	remainingSeconds := uint64(0)
	if campaign.Status(now) == model.CampaignStatusOpen {
		remainingSeconds = campaign.Deadline - now
	}

	return map[string]interface{}{
		"campaign_id":           id,
		"amount_collected":      campaign.AmountCollected.String(),
		"target":                campaign.Target.String(),
		"completion_percentage": completionPercentage,
		"donation_count":        len(campaign.Donations),
		"unique_donators":       len(uniqueDonators),
		"remaining_seconds":     remainingSeconds,
		"status":                string(campaign.Status(now)),
	}, nil
}

// GetAllCampaignStats 获取所有活动的统计信息
func (l *CampaignLogic) GetAllCampaignStats() (map[string]interface{}, error) {
	campaigns, err := l.GetCampaigns()
	if err != nil {
		return nil, err
	}

	now := l.clock.Now()

	var openCampaigns, closedCampaigns, fundedCampaigns int
	totalRaised := big.NewInt(0)
	totalDonations := 0
	for i := range campaigns {
		campaign := &campaigns[i]
		switch campaign.Status(now) {
		case model.CampaignStatusOpen:
			openCampaigns++
		case model.CampaignStatusClosed:
			closedCampaigns++
		}
		if campaign.Funded() {
			fundedCampaigns++
		}
		totalRaised.Add(totalRaised, campaign.AmountCollected)
		totalDonations += len(campaign.Donations)
	}

	return map[string]interface{}{
		"totalCampaigns":  len(campaigns),
		"openCampaigns":   openCampaigns,
		"closedCampaigns": closedCampaigns,
		"fundedCampaigns": fundedCampaigns,
		"totalRaised":     totalRaised.String(),
		"totalDonations":  totalDonations,
	}, nil
}
