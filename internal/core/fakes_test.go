package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"si-components/internal/types"
)

type fakeSession struct {
	schemas    map[string]string
	failCreate map[string]bool
	delay      time.Duration
	// gate, when set, holds every lookup until it is closed. started
	// receives one value per lookup that reached the gate.
	gate    chan struct{}
	started chan struct{}

	mu      sync.Mutex
	created []types.CreateComponentRequest

	lookups atomic.Int64
	creates atomic.Int64
}

func newFakeSession(schemas map[string]string) *fakeSession {
	return &fakeSession{schemas: schemas, failCreate: map[string]bool{}}
}

func (f *fakeSession) LookupSchemaID(ctx context.Context, changeSetID string, schemaName string) (string, error) {
	f.lookups.Add(1)
	if f.gate != nil {
		f.started <- struct{}{}
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	id, ok := f.schemas[schemaName]
	if !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("schema not found: " + schemaName)
	}
	return id, nil
}

func (f *fakeSession) CreateComponent(_ context.Context, _ string, req types.CreateComponentRequest) (types.CreatedComponent, error) {
	f.creates.Add(1)
	if f.failCreate[req.Name] {
		return types.CreatedComponent{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("create rejected for " + req.Name)
	}
	f.mu.Lock()
	f.created = append(f.created, req)
	f.mu.Unlock()
	return types.CreatedComponent{ID: "id-" + req.Name, Name: req.Name}, nil
}
