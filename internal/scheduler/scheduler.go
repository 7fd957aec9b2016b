package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"ReputePool/internal/pool"
	"ReputePool/internal/recorder"
)

// Scheduler manages the periodic pool snapshot task.
type Scheduler struct {
	Cron     *cron.Cron
	Pool     *pool.Manager
	Recorder recorder.Recorder
}

// NewScheduler creates a new Scheduler.
func NewScheduler(pm *pool.Manager, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pool:     pm,
		Recorder: rec,
	}
}

// Register registers the daily snapshot task.
func (s *Scheduler) Register(snapshotCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunSnapshotNow executes the snapshot task immediately (for manual trigger).
func (s *Scheduler) RunSnapshotNow() {
	s.snapshotTask()
}

func (s *Scheduler) snapshotTask() {
	snap := s.Pool.Snapshot()
	log.Printf("[INFO] pool snapshot: balance=%s members=%d likes=%d dislikes=%d",
		snap.Balance.String(), snap.Members, snap.TotalLikes, snap.TotalDislikes)

	if err := s.Recorder.RecordSnapshot(&recorder.SnapshotEvent{
		Balance:       snap.Balance.String(),
		Members:       snap.Members,
		TotalLikes:    snap.TotalLikes,
		TotalDislikes: snap.TotalDislikes,
	}); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
	}
}
