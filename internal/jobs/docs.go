// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// OutboxRelayJob publishes the domain events stored in the transactional outbox
// to the event broker. Messages that fail to publish are rescheduled with
// exponential backoff by the relay command and picked up by a later run.
//
// # Usage
//
// Jobs are managed through JobManager:
//
//	relay := jobs.NewOutboxRelayJob(relayHandler, jobs.DefaultOutboxRelaySchedule, 100, 10*time.Second, logger)
//	jobManager := jobs.NewJobManager().Add("outbox relay", relay)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules have six fields with seconds first; "* * * * * *" runs every second.
// Overlapping runs are skipped rather than queued.
package jobs
