package query_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jrsteele09/go-admin-console/gateway"
)

// fakeDoer answers requests with handle and records them.
type fakeDoer struct {
	mu       sync.Mutex
	requests []gateway.Request
	handle   func(ctx context.Context, req gateway.Request) (any, error)
}

func (f *fakeDoer) Do(ctx context.Context, req gateway.Request, out any) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	handle := f.handle
	f.mu.Unlock()

	resp, err := handle(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || resp == nil {
		return nil
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeDoer) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeDoer) last() gateway.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}
