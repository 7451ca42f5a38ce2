package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
)

// LikeCountReconciler rewrites drifted like counts and returns how many rows changed.
type LikeCountReconciler interface {
	ReconcileLikeCounts() (int64, error)
}

// LikeCountScheduler 좋아요 수 정합성 보정 스케줄러
type LikeCountScheduler struct {
	cron       *cron.Cron
	spec       string
	reconciler LikeCountReconciler
}

// NewLikeCountScheduler 실행 주기는 5필드 cron 표현식 (예: "0 4 * * *" = 매일 4시 0분)
func NewLikeCountScheduler(reconciler LikeCountReconciler, spec string) *LikeCountScheduler {
	return &LikeCountScheduler{
		cron:       cron.New(),
		spec:       spec,
		reconciler: reconciler,
	}
}

// Start 스케줄러 시작
func (s *LikeCountScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.Run); err != nil {
		logger.Error("Failed to add cron job for like count reconcile", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Like count scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Run executes one reconcile pass.
func (s *LikeCountScheduler) Run() {
	logger.Info("Starting scheduled like count reconcile", nil)

	repaired, err := s.reconciler.ReconcileLikeCounts()
	if err != nil {
		logger.Error("Failed to reconcile like counts from scheduler", err)
		return
	}

	logger.Info("Like counts reconciled", map[string]interface{}{
		"repaired": repaired,
	})
}

// Stop 스케줄러 중지. 실행 중인 작업이 끝날 때까지 기다린다.
func (s *LikeCountScheduler) Stop() {
	logger.Info("Stopping like count scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Like count scheduler stopped", nil)
}
