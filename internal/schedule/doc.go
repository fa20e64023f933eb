// Package schedule is a single-threaded cooperative scheduler.
//
// A Scheduler keeps an explicit list of jobs, each an (interval, next due
// time, task) triple. RunPending runs every due job inline, in
// registration order, then reschedules it one interval after it finished.
// Run polls RunPending once per tick until a deadline or until the context
// is cancelled. Nothing runs in the background, so jobs never overlap.
//
//	s := schedule.New()
//	s.Every(time.Minute, "heartbeat", sendHeartbeat)
//	s.Every(time.Hour, "report", printStats)
//	err := s.Run(ctx, time.Second, start.Add(24*time.Hour))
package schedule
