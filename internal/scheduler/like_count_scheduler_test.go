package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingReconciler struct {
	calls atomic.Int32
	err   error
}

func (r *countingReconciler) ReconcileLikeCounts() (int64, error) {
	r.calls.Add(1)
	return 3, r.err
}

func TestLikeCountScheduler_Run(t *testing.T) {
	r := &countingReconciler{}
	s := NewLikeCountScheduler(r, "0 4 * * *")

	s.Run()
	assert.Equal(t, int32(1), r.calls.Load())

	r.err = errors.New("db down")
	s.Run()
	assert.Equal(t, int32(2), r.calls.Load())
}

func TestLikeCountScheduler_StartStop(t *testing.T) {
	r := &countingReconciler{}
	s := NewLikeCountScheduler(r, "0 4 * * *")

	assert.NoError(t, s.Start())
	s.Stop()
	assert.Equal(t, int32(0), r.calls.Load())
}

func TestLikeCountScheduler_InvalidSpec(t *testing.T) {
	s := NewLikeCountScheduler(&countingReconciler{}, "not a cron spec")
	assert.Error(t, s.Start())
}
