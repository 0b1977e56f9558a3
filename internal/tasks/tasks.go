package tasks

import (
	"encoding/json"
	"time"
)

// 定义任务类型常量
const (
	TypeStatsRefresh = "stats:refresh" // 看板统计刷新任务类型
)

// StatsRefreshPayload 定义了统计刷新任务的数据结构
type StatsRefreshPayload struct {
	// 任务入队时间，用于排查调度延迟
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewStatsRefreshTask 创建一个新的统计刷新任务 payload
func NewStatsRefreshTask() ([]byte, error) {
	payload := StatsRefreshPayload{
		EnqueuedAt: time.Now(),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return payloadBytes, nil
}
