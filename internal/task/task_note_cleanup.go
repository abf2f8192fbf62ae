package task

import (
	"context"

	"github.com/haierkeys/fast-note-pdf-link-service/internal/app"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// init 自动注册清理任务
func init() {
	Register(NewNoteCleanupTask)
}

// NoteCleanupTask 物理删除超过保留期的软删除笔记
type NoteCleanupTask struct {
	notes    service.NoteService
	schedule cron.Schedule
	logger   *zap.Logger
	firstRun bool
	// 为 nil 时不跟踪（测试中直接构造）
	lifecycle lifecycle
}

// lifecycle 应用容器的关闭状态，关闭期间不再启动清理
type lifecycle interface {
	IsShuttingDown() bool
	TrackOperation() func()
}

// NewNoteCleanupTask 创建清理任务，未配置保留期时返回 nil
func NewNoteCleanupTask(appContainer *app.App) (Task, error) {
	cfg := appContainer.Config()
	if cfg.GetSoftDeleteRetention() <= 0 {
		appContainer.Logger().Info("note cleanup task is disabled (retention time not configured)")
		return nil, nil
	}

	schedule, err := ParseSchedule(cfg.App.CleanupSchedule)
	if err != nil {
		return nil, err
	}

	return &NoteCleanupTask{
		notes:     appContainer.NoteService,
		schedule:  schedule,
		logger:    appContainer.Logger(),
		firstRun:  true,
		lifecycle: appContainer,
	}, nil
}

// Name 返回任务名称
func (t *NoteCleanupTask) Name() string {
	return "NoteCleanupTask"
}

// Run 执行清理任务
func (t *NoteCleanupTask) Run(ctx context.Context) error {
	status := "scheduled"
	if t.firstRun {
		status = "first-run"
		t.firstRun = false
	}

	if t.lifecycle != nil {
		if t.lifecycle.IsShuttingDown() {
			t.logger.Info(t.Name() + " skipped, app is shutting down")
			return nil
		}
		defer t.lifecycle.TrackOperation()()
	}

	n, err := t.notes.CleanupAll(ctx)
	if err != nil {
		t.logger.Error(t.Name()+" failed", zap.String("status", status), zap.Error(err))
		return err
	}

	t.logger.Info(t.Name()+" completed", zap.String("status", status), zap.Int64("deleted", n))
	return nil
}

// Schedule 返回执行计划
func (t *NoteCleanupTask) Schedule() cron.Schedule {
	return t.schedule
}

// IsStartupRun 是否立即执行一次
func (t *NoteCleanupTask) IsStartupRun() bool {
	return true
}
