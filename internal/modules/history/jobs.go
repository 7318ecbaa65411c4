package history

// SyncJob refreshes the price cache for every tracked symbol. Registered
// with the scheduler at startup; also runnable on demand via the API.
type SyncJob struct {
	service *Service
}

// NewSyncJob creates a new sync job
func NewSyncJob(service *Service) *SyncJob {
	return &SyncJob{service: service}
}

// Name returns the job name
func (j *SyncJob) Name() string {
	return "history_sync"
}

// Run executes the sync
func (j *SyncJob) Run() error {
	return j.service.SyncAll()
}
