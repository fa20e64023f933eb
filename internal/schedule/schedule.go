package schedule

import (
	"context"
	"fmt"
	"time"

	"firestore-probe/internal/logger"
)

// Task はスケジューラが実行する処理
type Task func(ctx context.Context)

// Job は登録済みジョブ
type Job struct {
	Name     string
	Interval time.Duration
	NextDue  time.Time
	Runs     uint64

	task Task
}

// Scheduler は周期ジョブのリストを管理する
type Scheduler struct {
	jobs []*Job
	now  func() time.Time
}

// New は実時間で動くスケジューラを作成する
func New() *Scheduler {
	return NewWithClock(time.Now)
}

// NewWithClock は時刻取得関数を指定してスケジューラを作成する
func NewWithClock(now func() time.Time) *Scheduler {
	return &Scheduler{now: now}
}

// Every は interval ごとに task を実行するジョブを登録する
// 初回実行は登録時刻から interval 後
func (s *Scheduler) Every(interval time.Duration, name string, task Task) (*Job, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("job %s: interval must be positive, got %v", name, interval)
	}
	if task == nil {
		return nil, fmt.Errorf("job %s: task is nil", name)
	}

	job := &Job{
		Name:     name,
		Interval: interval,
		NextDue:  s.now().Add(interval),
		task:     task,
	}
	s.jobs = append(s.jobs, job)

	logger.Debug("schedule", "Job %s registered (every %v, first at %s)",
		name, interval, job.NextDue.Format("15:04:05"))
	return job, nil
}

// Jobs は登録済みジョブを返す
func (s *Scheduler) Jobs() []*Job {
	return s.jobs
}

// RunPending は期限に達したジョブを登録順に実行し、実行数を返す
func (s *Scheduler) RunPending(ctx context.Context) int {
	ran := 0
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return ran
		}
		if s.now().Before(job.NextDue) {
			continue
		}

		job.task(ctx)
		job.Runs++
		job.NextDue = s.now().Add(job.Interval)
		ran++
	}
	return ran
}

// Run は until まで tick 間隔で RunPending を繰り返す
// ctx がキャンセルされた場合は ctx.Err() を返す
func (s *Scheduler) Run(ctx context.Context, tick time.Duration, until time.Time) error {
	if tick <= 0 {
		return fmt.Errorf("tick must be positive, got %v", tick)
	}

	timer := time.NewTimer(tick)
	defer timer.Stop()

	for s.now().Before(until) {
		s.RunPending(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}

		timer.Reset(tick)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
