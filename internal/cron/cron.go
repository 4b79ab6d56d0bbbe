package cron

import (
	"context"
	"time"

	"ShengHang/internal/service"
	"ShengHang/pkg/logger"

	"github.com/robfig/cron/v3"
)

// HistoryCleaner 定时任务只关心这一件事
type HistoryCleaner interface {
	CleanupAll(ctx context.Context) (*service.CleanupStats, error)
}

// CronManager 定时任务管理器
type CronManager struct {
	cron    *cron.Cron
	spec    string
	cleaner HistoryCleaner
}

// NewCronManager spec是标准的分钟级cron表达式，比如 "0 2 * * *" = 每天02:00
func NewCronManager(spec string, cleaner HistoryCleaner) *CronManager {
	return &CronManager{
		cron:    cron.New(cron.WithLocation(time.Local)),
		spec:    spec,
		cleaner: cleaner,
	}
}

// Start 注册清理任务并启动调度，表达式不合法时返回错误
func (m *CronManager) Start() error {
	if _, err := m.cron.AddFunc(m.spec, m.runJob); err != nil {
		return err
	}
	m.cron.Start()
	logger.Log.WithField("spec", m.spec).Info("定时任务已启动")
	return nil
}

func (m *CronManager) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	if err := m.RunCleanupNow(ctx); err != nil {
		logger.Log.WithError(err).Error("播放记录清理任务失败")
	}
}

// Stop 停止调度，并等待正在执行的任务完成
func (m *CronManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	logger.Log.Info("定时任务已停止")
}

// RunCleanupNow 立即执行清理任务（用于测试或手动触发）
func (m *CronManager) RunCleanupNow(ctx context.Context) error {
	start := time.Now()
	stats, err := m.cleaner.CleanupAll(ctx)
	if err != nil {
		return err
	}
	logger.Log.WithField("total_users", stats.TotalUsers).
		WithField("cleaned_users", stats.CleanedUsers).
		WithField("failed_users", stats.FailedUsers).
		WithField("deleted_records", stats.DeletedRecords).
		WithField("elapsed", time.Since(start).String()).
		Info("播放记录清理完成")
	return nil
}
