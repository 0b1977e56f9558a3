package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"store-rating-service/internal/service"
	"store-rating-service/internal/tasks"
)

// StatsRefreshHandler 处理周期性的看板统计刷新任务
type StatsRefreshHandler struct {
	adminService *service.AdminService
}

// NewStatsRefreshHandler 创建 Handler 实例
func NewStatsRefreshHandler(adminService *service.AdminService) *StatsRefreshHandler {
	if adminService == nil {
		panic("AdminService cannot be nil for StatsRefreshHandler")
	}
	return &StatsRefreshHandler{adminService: adminService}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *StatsRefreshHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
	})
	logCtx.Info("Processing stats refresh task...")

	var payload tasks.StatsRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	counts, err := h.adminService.RefreshDashboardCounts(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to refresh dashboard counts")
		return fmt.Errorf("failed to refresh dashboard counts: %w", err)
	}

	logCtx.WithFields(logrus.Fields{
		"total_users":   counts.TotalUsers,
		"total_stores":  counts.TotalStores,
		"total_ratings": counts.TotalRatings,
	}).Info("Stats refresh task processed successfully")
	return nil
}
