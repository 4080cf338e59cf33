package handler

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/blues/cfc/internal/logic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// DonateHandler 捐款处理器
type DonateHandler struct {
	donateLogic *logic.DonateLogic
}

// NewDonateHandler 创建捐款处理器
func NewDonateHandler(donateLogic *logic.DonateLogic) *DonateHandler {
	return &DonateHandler{
		donateLogic: donateLogic,
	}
}

// Donate 向活动捐款
func (h *DonateHandler) Donate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的活动ID")
		return
	}

	var req DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if !common.IsHexAddress(req.Donor) {
		ErrorResponse(c, http.StatusBadRequest, "无效的捐款人地址")
		return
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的捐款金额")
		return
	}

	// 调用logic层执行捐款
	err = h.donateLogic.Donate(c.Request.Context(), id, common.HexToAddress(req.Donor), amount)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "捐款成功", nil)
}
