package clock

import (
	"time"
)

// Clock 时间提供者，截止时间校验只依赖当前的Unix秒数
type Clock interface {
	Now() uint64
}

// SystemClock 系统时钟
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Fixed 固定时钟，测试场景使用
type Fixed struct {
	Unix uint64
}

func (f Fixed) Now() uint64 {
	return f.Unix
}
