package consts

import "time"

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/01/18
 * @file: consts.go
 * @description: engine constants
 */

const (
	// WorkerLiveKey redis hash holding the latest heartbeat snapshot per worker
	WorkerLiveKey = "voxflow:worker:live"

	// WorkerLiveTTL snapshot expiry, refreshed on every heartbeat
	WorkerLiveTTL = 2 * time.Minute

	// DefaultLeaseTimeout how long a started task may go unreported before the sweep requeues it
	DefaultLeaseTimeout = 10 * time.Minute

	// DefaultSweepSchedule cron spec of the lease sweep
	DefaultSweepSchedule = "@every 1m"

	// DefaultWorkerAliveWindow a worker is considered alive when last_seen falls within this window
	DefaultWorkerAliveWindow = time.Minute
)
