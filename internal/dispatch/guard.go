package dispatch

import (
	"context"
	"sync"
	"time"

	"foodtruck-pos/internal/apperr"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// ErrInFlight is wrapped by the conflict error returned when an action is
// triggered again before its previous run finished.
var ErrInFlight = errors.New("action already in progress")

type result struct {
	value   interface{}
	expires time.Time
}

// Guard makes state-changing actions safe to trigger twice.
//
// Calls carrying an idempotency key are collapsed: concurrent duplicates
// share one execution and a successful result is replayed to later
// duplicates until it expires. Calls without a key are refused while the
// same action is still running.
type Guard struct {
	ttl time.Duration
	now func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	results  map[string]result
	inflight map[string]bool
}

func NewGuard(ttl time.Duration) *Guard {
	return &Guard{
		ttl:      ttl,
		now:      time.Now,
		results:  make(map[string]result),
		inflight: make(map[string]bool),
	}
}

// Do runs fn for action. action should already be scoped to its owner
// (for example "submit:12"); key is the client's idempotency key, if any.
func (g *Guard) Do(ctx context.Context, action, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	if key == "" {
		return g.exclusive(ctx, action, fn)
	}

	id := action + "\x00" + key
	if v, ok := g.replay(id); ok {
		return v, nil
	}

	v, err, _ := g.group.Do(id, func() (interface{}, error) {
		// A duplicate may have finished between replay and Do
		if v, ok := g.replay(id); ok {
			return v, nil
		}
		// Duplicates wait on this run, so it outlives the caller that started it
		v, err := fn(context.WithoutCancel(ctx))
		if err == nil {
			g.remember(id, v)
		}
		return v, err
	})
	return v, err
}

// Run is Do for a typed result.
func Run[T any](ctx context.Context, g *Guard, action, key string, fn func(context.Context) (T, error)) (T, error) {
	v, err := g.Do(ctx, action, key, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}

func (g *Guard) exclusive(ctx context.Context, action string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	g.mu.Lock()
	if g.inflight[action] {
		g.mu.Unlock()
		return nil, &apperr.Error{Kind: apperr.KindConflict, Message: "this action is already in progress", Err: ErrInFlight}
	}
	g.inflight[action] = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inflight, action)
		g.mu.Unlock()
	}()
	return fn(ctx)
}

func (g *Guard) replay(id string) (interface{}, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.results[id]
	if !ok {
		return nil, false
	}
	if !g.now().Before(r.expires) {
		delete(g.results, id)
		return nil, false
	}
	return r.value, true
}

func (g *Guard) remember(id string, v interface{}) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, r := range g.results {
		if !now.Before(r.expires) {
			delete(g.results, k)
		}
	}
	g.results[id] = result{value: v, expires: now.Add(g.ttl)}
}
