package logic

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/blues/cfc/internal/clock"
	"github.com/blues/cfc/internal/logger"
	"github.com/blues/cfc/internal/model"
	"github.com/blues/cfc/internal/payment"
	"github.com/blues/cfc/internal/store"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/ethereum/go-ethereum/common"
)

// DonateLogic 捐款业务逻辑
type DonateLogic struct {
	store      *store.Store
	clock      clock.Clock
	transferer payment.Transferer

	// 同一活动的捐款串行执行，转账在锁内完成，
	// 两笔并发捐款不会读到同一份捐款前的累计金额
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// NewDonateLogic 创建捐款业务逻辑
func NewDonateLogic(s *store.Store, c clock.Clock, t payment.Transferer) *DonateLogic {
	return &DonateLogic{
		store:      s,
		clock:      c,
		transferer: t,
		locks:      make(map[uint64]*sync.Mutex),
	}
}

// campaignLock 获取单个活动的互斥锁
func (d *DonateLogic) campaignLock(id uint64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[id] = lock
	}
	return lock
}

// Donate 向活动捐款
// 校验通过后先执行资金划转，成功后才把捐款记录和累计金额
// 一次性写入存储，划转失败不留任何本地状态
func (d *DonateLogic) Donate(ctx context.Context, id uint64, donor common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	// 活动一经创建不会删除，先确认存在再分配锁条目，
	// 乱给的ID不会在锁表里留下残留
	if err := d.checkExists(id); err != nil {
		return err
	}

	lock := d.campaignLock(id)
	lock.Lock()
	defer lock.Unlock()

	campaign, err := d.loadCampaign(id)
	if err != nil {
		return err
	}

	// 按顺序校验，首个未通过的直接返回
	if donor == campaign.Owner {
		return ErrSelfDonation
	}
	if d.clock.Now() > campaign.Deadline {
		return ErrDeadlinePassed
	}
	if campaign.AmountCollected.Cmp(campaign.Target) >= 0 {
		return ErrTargetReached
	}

	// 外部划转先行，本地状态只在划转成功后提交
	if err := d.transferer.Transfer(ctx, donor, campaign.Owner, amount); err != nil {
		return fmt.Errorf("资金划转失败: %w", err)
	}

	campaign.Donators = append(campaign.Donators, donor)
	campaign.Donations = append(campaign.Donations, new(big.Int).Set(amount))
	campaign.AmountCollected = new(big.Int).Add(campaign.AmountCollected, amount)

	data, err := campaign.Encode()
	if err != nil {
		return fmt.Errorf("序列化活动记录失败: %w", err)
	}
	err = d.store.Update(func(txn *badger.Txn) error {
		return store.Set(txn, store.CampaignKey(id), data)
	})
	if err != nil {
		return fmt.Errorf("保存捐款记录失败: %w", err)
	}

	logger.Info("捐款成功: campaign=%d donor=%s amount=%s collected=%s",
		id, donor.Hex(), amount.String(), campaign.AmountCollected.String())

	return nil
}

// checkExists 校验活动ID落在已分配区间内
func (d *DonateLogic) checkExists(id uint64) error {
	return d.store.View(func(txn *badger.Txn) error {
		count, err := store.GetCounter(txn)
		if err != nil {
			return mapStoreErr(err)
		}
		if id >= count {
			return ErrCampaignNotFound
		}
		return nil
	})
}

// loadCampaign 读取活动记录
func (d *DonateLogic) loadCampaign(id uint64) (*model.Campaign, error) {
	var campaign *model.Campaign
	err := d.store.View(func(txn *badger.Txn) error {
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
