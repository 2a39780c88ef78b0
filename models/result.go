package models

import (
	"sync"
	"time"
)

// Result summarizes one pulse run. It is safe for concurrent use while the
// run is in progress; read the fields only after the run returns.
type Result struct {
	Received int
	Emitted  []string
	Failed   []FailedEmission
	Duration time.Duration

	mu sync.Mutex
}

type FailedEmission struct {
	Value string
	Error error
}

func (r *Result) AddReceived() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Received++
}

func (r *Result) AddEmitted(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Emitted = append(r.Emitted, value)
}

func (r *Result) AddFailed(value string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failed = append(r.Failed, FailedEmission{Value: value, Error: err})
}
