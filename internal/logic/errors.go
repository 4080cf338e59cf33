package logic

import (
	"errors"
)

// 业务错误定义
// 校验失败直接返回给调用方，核心不做任何重试
var (
	ErrInvalidDeadline  = errors.New("截止时间必须晚于当前时间")
	ErrInvalidTarget    = errors.New("目标金额必须大于0")
	ErrCampaignNotFound = errors.New("活动不存在")
	ErrInvalidAmount    = errors.New("捐款金额必须大于0")
	ErrSelfDonation     = errors.New("发起人不能为自己的活动捐款")
	ErrDeadlinePassed   = errors.New("活动已过截止时间")
	ErrTargetReached    = errors.New("活动已达成目标金额")
	ErrCorruptState     = errors.New("活动数据不一致")
)
