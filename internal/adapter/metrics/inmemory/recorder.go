package inmemory

import (
	"strconv"
	"sync"
)

type Snapshot struct {
	CompletionTotal    uint64            `json:"completion_total"`
	CompletionOK       uint64            `json:"completion_ok"`
	CompletionFailed   uint64            `json:"completion_failed"`
	TransportFailures  uint64            `json:"transport_failures"`
	MemorySearches     uint64            `json:"memory_searches"`
	MemoryHits         uint64            `json:"memory_hits"`
	BackgroundStores   uint64            `json:"background_stores"`
	CompletionByStatus map[string]uint64 `json:"completion_by_status"`
}

type Recorder struct {
	mu                sync.Mutex
	ok                uint64
	failed            uint64
	transportFailures uint64
	searches          uint64
	hits              uint64
	stores            uint64
	byStatus          map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byStatus: map[string]uint64{},
	}
}

func (r *Recorder) RecordCompletion(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if status >= 200 && status < 300 {
		r.ok++
	} else {
		r.failed++
	}
	r.byStatus[strconv.Itoa(status)]++
}

func (r *Recorder) RecordTransportFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transportFailures++
}

func (r *Recorder) RecordMemorySearch(hits int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches++
	r.hits += uint64(hits)
}

func (r *Recorder) RecordBackgroundStore() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CompletionOK:       r.ok,
		CompletionFailed:   r.failed,
		CompletionTotal:    r.ok + r.failed,
		TransportFailures:  r.transportFailures,
		MemorySearches:     r.searches,
		MemoryHits:         r.hits,
		BackgroundStores:   r.stores,
		CompletionByStatus: make(map[string]uint64, len(r.byStatus)),
	}
	for k, v := range r.byStatus {
		out.CompletionByStatus[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
