package handler

import (
	"github.com/blues/cfc/internal/model"
)

// 请求模型

// CreateCampaignRequest 创建活动请求
type CreateCampaignRequest struct {
	Owner       string `json:"owner" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Target      string `json:"target" binding:"required"`
	Deadline    uint64 `json:"deadline" binding:"required"`
}

// DonateRequest 捐款请求
type DonateRequest struct {
	Donor  string `json:"donor" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// 响应模型

// CampaignResponse 活动响应模型
type CampaignResponse struct {
	ID              uint64   `json:"id"`
	Owner           string   `json:"owner"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Image           string   `json:"image"`
	Target          string   `json:"target"`
	Deadline        uint64   `json:"deadline"`
	AmountCollected string   `json:"amountCollected"`
	Donators        []string `json:"donators"`
	Donations       []string `json:"donations"`
	Status          string   `json:"status"`
}

// CreateCampaignResponse 创建活动响应
type CreateCampaignResponse struct {
	ID uint64 `json:"id"`
}

// GetCampaignsResponse 获取活动列表响应
type GetCampaignsResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
	Total     uint64             `json:"total"`
}

// GetCampaignResponse 获取活动详情响应
type GetCampaignResponse struct {
	Campaign CampaignResponse `json:"campaign"`
}

// GetDonatorsResponse 获取捐款人列表响应
type GetDonatorsResponse struct {
	Donators  []string `json:"donators"`
	Donations []string `json:"donations"`
}

// GetCampaignStatsResponse 获取活动统计响应
type GetCampaignStatsResponse struct {
	Stats map[string]interface{} `json:"stats"`
}

// 转换函数

// ToCampaignResponse 将活动记录转换为响应模型
func ToCampaignResponse(id uint64, campaign *model.Campaign, now uint64) CampaignResponse {
	donators := make([]string, len(campaign.Donators))
	for i, donator := range campaign.Donators {
		donators[i] = donator.Hex()
	}
	donations := make([]string, len(campaign.Donations))
	for i, donation := range campaign.Donations {
		donations[i] = donation.String()
	}

	return CampaignResponse{
		ID:              id,
		Owner:           campaign.Owner.Hex(),
		Title:           campaign.Title,
		Description:     campaign.Description,
		Image:           campaign.Image,
		Target:          campaign.Target.String(),
		Deadline:        campaign.Deadline,
		AmountCollected: campaign.AmountCollected.String(),
		Donators:        donators,
		Donations:       donations,
		Status:          string(campaign.Status(now)),
	}
}

// ToCampaignResponseList 将活动记录列表转换为响应模型列表
// 活动按ID升序排列，下标即ID
func ToCampaignResponseList(campaigns []model.Campaign, now uint64) []CampaignResponse {
	result := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		result[i] = ToCampaignResponse(uint64(i), &campaigns[i], now)
	}
	return result
}
