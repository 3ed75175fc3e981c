package kvfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-admin-console/tokenstore"
)

var _ tokenstore.KV = (*FakeKV)(nil)

// FakeKV is an in-memory KV that counts calls and can be told to fail.
type FakeKV struct {
	lock      sync.RWMutex
	values    map[string]string
	sets      int
	deletes   int
	GetErr    error
	SetErr    error
	DeleteErr error
}

func New() *FakeKV {
	return &FakeKV{values: make(map[string]string)}
}

// Seed writes values without counting them.
func (f *FakeKV) Seed(values map[string]string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	for k, v := range values {
		f.values[k] = v
	}
}

func (f *FakeKV) GetMany(_ context.Context, keys []string) (map[string]string, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := f.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (f *FakeKV) SetMany(_ context.Context, values map[string]string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.SetErr != nil {
		return f.SetErr
	}
	f.sets++
	for k, v := range values {
		f.values[k] = v
	}
	return nil
}

func (f *FakeKV) DeleteMany(_ context.Context, keys []string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.deletes++
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

// Snapshot returns a copy of everything stored.
func (f *FakeKV) Snapshot() map[string]string {
	f.lock.RLock()
	defer f.lock.RUnlock()

	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func (f *FakeKV) Sets() int {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.sets
}

func (f *FakeKV) Deletes() int {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.deletes
}
