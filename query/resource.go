package query

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-admin-console/gateway"
	"github.com/jrsteele09/go-admin-console/notify"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrStaleResponse is returned for a fetch that finished after a newer fetch of the
	// same query had started. Its result is discarded.
	ErrStaleResponse   = stderrors.New("stale response discarded")
	ErrBulkUnsupported = stderrors.New("bulk operations not supported by this resource")
)

// Doer is the part of the gateway a resource needs.
type Doer interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

var _ Doer = (*gateway.Client)(nil)

// Messages are the notifications shown after mutations.
type Messages struct {
	Created          string
	Updated          string
	Deleted          string
	BulkUpdated      string
	BulkDeleted      string
	CreateFailed     string
	UpdateFailed     string
	DeleteFailed     string
	BulkUpdateFailed string
	BulkDeleteFailed string
}

// DefaultMessages builds messages such as "Category created successfully" and
// "Failed to delete categories".
func DefaultMessages(singular, plural string) Messages {
	if plural == "" {
		plural = singular + "s"
	}
	lowerOne, lowerMany := strings.ToLower(singular), strings.ToLower(plural)
	title := strings.ToUpper(lowerMany[:1]) + lowerMany[1:]
	return Messages{
		Created:          singular + " created successfully",
		Updated:          singular + " updated successfully",
		Deleted:          singular + " deleted successfully",
		BulkUpdated:      title + " status updated successfully",
		BulkDeleted:      title + " deleted successfully",
		CreateFailed:     "Failed to create " + lowerOne,
		UpdateFailed:     "Failed to update " + lowerOne,
		DeleteFailed:     "Failed to delete " + lowerOne,
		BulkUpdateFailed: "Failed to update " + lowerMany + " status",
		BulkDeleteFailed: "Failed to delete " + lowerMany,
	}
}

type Config struct {
	// Name namespaces the resource in the cache.
	Name string
	// Path is the collection endpoint, e.g. /admin/categories.
	Path      string
	StaleTime time.Duration
	// BulkIDsField names the id list in bulk request bodies. Empty disables bulk calls.
	BulkIDsField string
	Messages     Messages
}

// Resource is a cached, invalidating view over one REST collection.
type Resource[T any] struct {
	cfg      Config
	gw       Doer
	cache    *Cache
	notifier notify.Notifier
	logger   zerolog.Logger

	flights singleflight.Group
	seqMu   sync.Mutex
	seq     map[string]uint64
}

type Option func(*options)

type options struct {
	notifier notify.Notifier
	logger   zerolog.Logger
}

func WithNotifier(n notify.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func NewResource[T any](gw Doer, cache *Cache, cfg Config, opts ...Option) *Resource[T] {
	o := options{notifier: notify.Nop{}, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = 5 * time.Minute
	}
	return &Resource[T]{
		cfg:      cfg,
		gw:       gw,
		cache:    cache,
		notifier: o.notifier,
		logger:   o.logger.With().Str("resource", cfg.Name).Logger(),
		seq:      make(map[string]uint64),
	}
}

func (r *Resource[T]) Name() string { return r.cfg.Name }

// List serves q from cache while fresh, otherwise fetches it. Concurrent misses for the
// same query share one request.
func (r *Resource[T]) List(ctx context.Context, q Query) (Page[T], error) {
	key := "list|" + q.Key()
	if v, ok := r.cache.Get(r.cfg.Name, key, r.cfg.StaleTime); ok {
		return v.(Page[T]), nil
	}
	v, err := r.share(ctx, key, func(ctx context.Context) (any, error) {
		return r.fetchPage(ctx, q, key)
	})
	if err != nil {
		return Page[T]{}, err
	}
	return v.(Page[T]), nil
}

// Refetch ignores the cache and any fetch already in flight for q. That older fetch, if
// it completes later, is discarded.
func (r *Resource[T]) Refetch(ctx context.Context, q Query) (Page[T], error) {
	key := "list|" + q.Key()
	r.flights.Forget(r.flightKey(key))
	return r.fetchPage(ctx, q, key)
}

// share runs fn once for every caller asking for key within the current cache
// generation, so a read issued after an invalidation never joins an older fetch. The
// fetch is detached from the caller that started it; each caller only stops waiting
// when its own ctx ends.
func (r *Resource[T]) share(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := r.flights.DoChan(r.flightKey(key), func() (any, error) {
		return fn(detached)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (r *Resource[T]) flightKey(key string) string {
	return key + "|" + strconv.FormatUint(r.cache.Generation(r.cfg.Name), 10)
}

func (r *Resource[T]) fetchPage(ctx context.Context, q Query, key string) (Page[T], error) {
	seq := r.begin(key)
	generation := r.cache.Generation(r.cfg.Name)

	var raw json.RawMessage
	err := r.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: r.cfg.Path, Query: q.Values()}, &raw)
	if err != nil {
		return Page[T]{}, err
	}
	if !r.isLatest(key, seq) {
		r.logger.Debug().Str("query", q.Key()).Msg("discarding stale page")
		return Page[T]{}, ErrStaleResponse
	}
	page, err := DecodePage[T](raw)
	if err != nil {
		return Page[T]{}, err
	}
	r.cache.Put(r.cfg.Name, key, page, generation)
	return page, nil
}

// Get fetches a single item, cached like a page.
func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	key := fmt.Sprintf("detail|%d", id)
	if v, ok := r.cache.Get(r.cfg.Name, key, r.cfg.StaleTime); ok {
		return v.(T), nil
	}
	seq := r.begin(key)
	generation := r.cache.Generation(r.cfg.Name)

	var raw json.RawMessage
	if err := r.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: r.itemPath(id)}, &raw); err != nil {
		var zero T
		return zero, err
	}
	item, err := decodeItem[T](raw)
	if err != nil {
		return item, err
	}
	if r.isLatest(key, seq) {
		r.cache.Put(r.cfg.Name, key, item, generation)
	}
	return item, nil
}

// Lookup fetches an auxiliary read of r (a tree, an options list) cached under kind with
// its own stale time. It is invalidated together with the resource.
func Lookup[V any, T any](ctx context.Context, r *Resource[T], kind, subpath string, params url.Values, staleTime time.Duration) (V, error) {
	key := "lookup|" + kind + "|" + params.Encode()
	if v, ok := r.cache.Get(r.cfg.Name, key, staleTime); ok {
		return v.(V), nil
	}
	v, err := r.share(ctx, key, func(ctx context.Context) (any, error) {
		seq := r.begin(key)
		generation := r.cache.Generation(r.cfg.Name)

		var out struct {
			Data V `json:"data"`
		}
		err := r.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: r.cfg.Path + subpath, Query: params}, &out)
		if err != nil {
			return nil, err
		}
		if r.isLatest(key, seq) {
			r.cache.Put(r.cfg.Name, key, out.Data, generation)
		}
		return out.Data, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

func (r *Resource[T]) Create(ctx context.Context, body any) (T, error) {
	return r.mutateItem(ctx, http.MethodPost, r.cfg.Path, body, r.cfg.Messages.Created, r.cfg.Messages.CreateFailed)
}

func (r *Resource[T]) Update(ctx context.Context, id int64, body any) (T, error) {
	return r.mutateItem(ctx, http.MethodPut, r.itemPath(id), body, r.cfg.Messages.Updated, r.cfg.Messages.UpdateFailed)
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.mutate(ctx, gateway.Request{Method: http.MethodDelete, Path: r.itemPath(id)}, nil, r.cfg.Messages.Deleted, r.cfg.Messages.DeleteFailed)
}

// BulkUpdateStatus sets status ("active" or "inactive") on every id.
func (r *Resource[T]) BulkUpdateStatus(ctx context.Context, ids []int64, status string) error {
	if r.cfg.BulkIDsField == "" {
		return ErrBulkUnsupported
	}
	body := map[string]any{r.cfg.BulkIDsField: ids, "status": status}
	req := gateway.Request{Method: http.MethodPost, Path: r.cfg.Path + "/bulk-update-status", Body: body}
	return r.mutate(ctx, req, nil, r.cfg.Messages.BulkUpdated, r.cfg.Messages.BulkUpdateFailed)
}

// BulkDelete sends the ids in the body of a DELETE.
func (r *Resource[T]) BulkDelete(ctx context.Context, ids []int64) error {
	if r.cfg.BulkIDsField == "" {
		return ErrBulkUnsupported
	}
	body := map[string]any{r.cfg.BulkIDsField: ids}
	req := gateway.Request{Method: http.MethodDelete, Path: r.cfg.Path + "/bulk-delete", Body: body}
	return r.mutate(ctx, req, nil, r.cfg.Messages.BulkDeleted, r.cfg.Messages.BulkDeleteFailed)
}

// Invalidate marks every cached page and lookup of the resource stale.
func (r *Resource[T]) Invalidate() {
	r.cache.InvalidateResource(r.cfg.Name)
}

// Mutate runs a custom write against the resource with the usual invalidation and
// notifications.
func (r *Resource[T]) Mutate(ctx context.Context, req gateway.Request, out any, success, failure string) error {
	return r.mutate(ctx, req, out, success, failure)
}

func (r *Resource[T]) mutateItem(ctx context.Context, method, path string, body any, success, failure string) (T, error) {
	var raw json.RawMessage
	var item T
	if err := r.mutate(ctx, gateway.Request{Method: method, Path: path, Body: body}, &raw, success, failure); err != nil {
		return item, err
	}
	return decodeItem[T](raw)
}

// mutate invalidates the resource on success. On failure the cache is left alone and the
// server's message (or the fallback) is shown, except when the session has already
// expired and the gateway has said so.
func (r *Resource[T]) mutate(ctx context.Context, req gateway.Request, out any, success, failure string) error {
	if err := r.gw.Do(ctx, req, out); err != nil {
		if !gateway.IsAuthExpired(err) && ctx.Err() == nil {
			msg := gateway.ServerMessage(err)
			if msg == "" {
				msg = failure
			}
			if msg != "" {
				notify.Error(r.notifier, msg)
			}
		}
		r.logger.Debug().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("mutation failed")
		return err
	}
	r.Invalidate()
	if success != "" {
		notify.Success(r.notifier, success)
	}
	return nil
}

func (r *Resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.cfg.Path, id)
}

func (r *Resource[T]) begin(key string) uint64 {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()
	r.seq[key]++
	return r.seq[key]
}

func (r *Resource[T]) isLatest(key string, seq uint64) bool {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()
	return r.seq[key] == seq
}
