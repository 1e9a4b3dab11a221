package workers

// Worker is a background job started with the bot: the pending order reminder
// and the storage health check.
type Worker interface {
	// Start launches the worker and returns without blocking
	Start() error

	// Stop blocks until the current run has finished
	Stop()

	// Name is used as the "worker" log attribute
	Name() string
}
