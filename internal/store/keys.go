package store

import (
	"encoding/binary"
)

// 键空间只有两种形状：活动计数器的固定键，和按活动ID拼出的记录键
const campaignKeyPrefix = "campaign/"

var counterKey = []byte("campaign_count")

// CounterKey 活动计数器的存储键
func CounterKey() []byte {
	return counterKey
}

// CampaignKey 活动记录的存储键：前缀 + 大端序ID
func CampaignKey(id uint64) []byte {
	key := make([]byte, len(campaignKeyPrefix)+8)
	copy(key, campaignKeyPrefix)
	binary.BigEndian.PutUint64(key[len(campaignKeyPrefix):], id)
	return key
}
