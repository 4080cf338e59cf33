package model

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Campaign 众筹活动记录
type Campaign struct {
	// 基本信息，创建后不可变更
	Owner       common.Address `json:"owner"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Image       string         `json:"image"`

	// 众筹信息
	Target   *big.Int `json:"target"`   // 目标金额
	Deadline uint64   `json:"deadline"` // 截止时间（Unix秒）

	// 捐款台账，donators 与 donations 按到账顺序一一对应
	AmountCollected *big.Int         `json:"amount_collected"`
	Donators        []common.Address `json:"donators"`
	Donations       []*big.Int       `json:"donations"`
}

// CampaignStatus 活动状态
type CampaignStatus string

const (
	CampaignStatusOpen   CampaignStatus = "open"   // 进行中
	CampaignStatusClosed CampaignStatus = "closed" // 已结束
)

// NewCampaign 创建初始活动记录
func NewCampaign(owner common.Address, title, description, image string, target *big.Int, deadline uint64) *Campaign {
	return &Campaign{
		Owner:           owner,
		Title:           title,
		Description:     description,
		Image:           image,
		Target:          new(big.Int).Set(target),
		Deadline:        deadline,
		AmountCollected: big.NewInt(0),
	}
}

// Status 根据当前时间推导活动状态
// 状态不落库，单一数据来源是 (deadline, amount_collected, target)
func (c *Campaign) Status(now uint64) CampaignStatus {
	if now > c.Deadline {
		return CampaignStatusClosed
	}
	if c.Funded() {
		return CampaignStatusClosed
	}
	return CampaignStatusOpen
}

// Funded 是否已达到目标金额
func (c *Campaign) Funded() bool {
	return c.AmountCollected.Cmp(c.Target) >= 0
}

// Encode 序列化为存储值
func (c *Campaign) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// DecodeCampaign 从存储值反序列化
func DecodeCampaign(data []byte) (*Campaign, error) {
	var campaign Campaign
	if err := json.Unmarshal(data, &campaign); err != nil {
		return nil, err
	}
	if campaign.Target == nil {
		campaign.Target = big.NewInt(0)
	}
	if campaign.AmountCollected == nil {
		campaign.AmountCollected = big.NewInt(0)
	}
	return &campaign, nil
}
