// Package workers provides abstractions for managing and running background
// workers in the application. It defines the Worker interface, a Workers
// aggregate that runs them in a unified way, and the session purger.
package workers

// Worker is the interface implemented by any background worker. Run starts
// the worker; implementations spawn their own goroutines internally.
type Worker interface {
	Run()
}

type Workers struct {
	workers []Worker
}

// NewWorkers bundles the given workers.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
