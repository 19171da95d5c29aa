package memory

import (
	"context"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/jobscheduler"
)

type JobDispatchRepository struct {
	store *Store
}

func (r *JobDispatchRepository) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k := key(event.DispatchID, string(event.Status))
	if _, ok := r.store.dispatch[k]; !ok {
		r.store.dispatchOrder = append(r.store.dispatchOrder, k)
	}
	r.store.dispatch[k] = event
	return nil
}

func (r *JobDispatchRepository) ListEvents(_ context.Context, jobName string, limit int) ([]jobscheduler.DispatchEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]jobscheduler.DispatchEvent, 0)
	for i := len(r.store.dispatchOrder) - 1; i >= 0; i-- {
		event := r.store.dispatch[r.store.dispatchOrder[i]]
		if jobName != "" && event.JobName != jobName {
			continue
		}
		out = append(out, event)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
