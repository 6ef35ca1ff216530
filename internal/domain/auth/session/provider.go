package session

import (
	"context"
	"sync"
)

// Options configures backend selection for a Provider.
type Options struct {
	Redis  RedisOptions
	Logger Logger
}

// Provider lazily selects the backing store on first use and pins the choice
// for the process lifetime:
//
//   - no redis URL configured: in-memory fallback, permanently
//   - redis connection attempt fails: warn, in-memory fallback, permanently
//   - connection succeeds: redis, permanently; later transport errors degrade
//     individual operations but never flip the backend
//
// The sync.Once latch guarantees concurrent first callers observe exactly one
// initialization. Inject a fresh Provider per test run instead of sharing a
// package-level instance.
type Provider struct {
	opts Options

	once sync.Once

	// mu guards store so Close can run concurrently with a first Store call.
	mu    sync.Mutex
	store Store
}

// NewProvider builds an uninitialized provider. No connection is attempted
// until the first Store call.
func NewProvider(opts Options) *Provider {
	return &Provider{opts: opts}
}

// Store returns the selected backend, initializing it on first call.
func (p *Provider) Store(ctx context.Context) Store {
	p.once.Do(func() {
		store := p.selectBackend(ctx)
		p.mu.Lock()
		p.store = store
		p.mu.Unlock()
	})
	return p.store
}

func (p *Provider) selectBackend(ctx context.Context) Store {
	logger := p.opts.Logger

	if p.opts.Redis.URL == "" {
		if logger != nil {
			logger.Warn("redis url not configured, using in-memory session store")
		}
		return NewMemory()
	}

	store, err := NewRedis(ctx, p.opts.Redis)
	if err != nil {
		if logger != nil {
			logger.Warn("redis connection failed, using in-memory session store: %v", err)
		}
		return NewMemory()
	}
	if logger != nil {
		logger.Info("redis session store connected")
	}
	return store
}

// Close releases the active backend if one was initialized.
func (p *Provider) Close() error {
	p.mu.Lock()
	store := p.store
	p.mu.Unlock()

	if store != nil {
		return store.Close()
	}
	return nil
}
