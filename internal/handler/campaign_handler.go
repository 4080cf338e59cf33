package handler

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/blues/cfc/internal/clock"
	"github.com/blues/cfc/internal/logic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// CampaignHandler 活动处理器
type CampaignHandler struct {
	campaignLogic *logic.CampaignLogic
	clock         clock.Clock
}

// NewCampaignHandler 创建活动处理器
func NewCampaignHandler(campaignLogic *logic.CampaignLogic, clk clock.Clock) *CampaignHandler {
	return &CampaignHandler{
		campaignLogic: campaignLogic,
		clock:         clk,
	}
}

// CreateCampaign 创建活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if !common.IsHexAddress(req.Owner) {
		ErrorResponse(c, http.StatusBadRequest, "无效的发起人地址")
		return
	}
	target, ok := new(big.Int).SetString(req.Target, 10)
	if !ok || target.Sign() <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "无效的目标金额")
		return
	}

	// 调用logic层创建活动
	id, err := h.campaignLogic.CreateCampaign(
		common.HexToAddress(req.Owner),
		req.Title, req.Description, req.Image,
		target, req.Deadline,
	)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "活动创建成功", CreateCampaignResponse{ID: id})
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	// 调用logic层获取活动列表
	campaigns, err := h.campaignLogic.GetCampaigns()
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动列表成功", GetCampaignsResponse{
		Campaigns: ToCampaignResponseList(campaigns, h.clock.Now()),
		Total:     uint64(len(campaigns)),
	})
}

// GetCampaign 获取单个活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	// 调用logic层获取活动详情
	campaign, err := h.campaignLogic.GetCampaign(id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动详情成功", GetCampaignResponse{
		Campaign: ToCampaignResponse(id, campaign, h.clock.Now()),
	})
}

// GetDonators 获取活动捐款人列表
func (h *CampaignHandler) GetDonators(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	// 调用logic层获取捐款人列表
	donators, donations, err := h.campaignLogic.GetDonators(id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	resp := GetDonatorsResponse{
		Donators:  make([]string, len(donators)),
		Donations: make([]string, len(donations)),
	}
	for i, donator := range donators {
		resp.Donators[i] = donator.Hex()
	}
	for i, donation := range donations {
		resp.Donations[i] = donation.String()
	}

	SuccessResponse(c, http.StatusOK, "获取捐款记录成功", resp)
}

// GetCampaignStats 获取活动统计信息
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	// 调用logic层获取活动统计信息
	stats, err := h.campaignLogic.GetCampaignStats(id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动统计信息成功", GetCampaignStatsResponse{Stats: stats})
}

// GetAllCampaignStats 获取所有活动统计信息
func (h *CampaignHandler) GetAllCampaignStats(c *gin.Context) {
	stats, err := h.campaignLogic.GetAllCampaignStats()
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取活动统计信息成功", GetCampaignStatsResponse{Stats: stats})
}
