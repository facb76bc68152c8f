// Package timeutil provides time utility functions.
package timeutil

import (
	"sync"
	"time"
)

var (
	mu          sync.RWMutex
	nowProvider = time.Now
)

// SetNowFunc 设置时间提供者，传入nil时恢复系统时钟
func SetNowFunc(f func() time.Time) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		f = time.Now
	}
	nowProvider = f
}

// Now 返回当前时间（来自注入的时钟）
func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return nowProvider()
}

// NowUnix 返回当前Unix秒时间戳
func NowUnix() int64 { return Now().Unix() }
