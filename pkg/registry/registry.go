// Package registry implements the link registry (C4): it maps short-lived
// opaque tokens to upstream locators, so /dl/{token} and /stream/{token}
// never expose the underlying chat/message identifiers.
package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/streamlink/streamlink/pkg/blockio"
	"github.com/streamlink/streamlink/pkg/logging"
)

// Entry is one registered link.
type Entry struct {
	Token     string
	Locator   blockio.Locator
	FileName  string
	MimeType  string
	Size      int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (e Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Registry is a concurrency-safe TTL map from token to Entry, with both a
// background sweep (Run) and synchronous expiry checks on every read, per
// spec §5: a link must never be servable past its TTL even if the sweep
// hasn't run yet.
type Registry struct {
	mu            sync.Mutex
	entries       map[string]Entry
	ttl           time.Duration
	tokenLength   int
	sweepInterval time.Duration
	log           logging.Logger

	nowFunc func() time.Time

	// OnSweep, when set, is called once per completed sweep pass (even if
	// it evicted nothing), letting a caller track a sweep-count metric.
	OnSweep func()
}

const maxTokenAttempts = 8

// New creates a Registry. ttl<=0 means links never expire on their own
// (still deletable explicitly).
func New(ttl time.Duration, tokenLength int, sweepInterval time.Duration, log logging.Logger) *Registry {
	return &Registry{
		entries:       make(map[string]Entry),
		ttl:           ttl,
		tokenLength:   tokenLength,
		sweepInterval: sweepInterval,
		log:           log,
		nowFunc:       time.Now,
	}
}

// Register mints a new token for locator and stores its metadata, returning
// the token. Collisions against live tokens are retried up to
// maxTokenAttempts times before returning ErrCollision.
func (r *Registry) Register(locator blockio.Locator, fileName, mimeType string, size int64) (string, error) {
	now := r.nowFunc()
	var expires time.Time
	if r.ttl > 0 {
		expires = now.Add(r.ttl)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := generateToken(r.tokenLength)
		if err != nil {
			return "", err
		}
		if existing, ok := r.entries[token]; ok && !existing.expired(now) {
			continue
		}
		r.entries[token] = Entry{
			Token:     token,
			Locator:   locator,
			FileName:  fileName,
			MimeType:  mimeType,
			Size:      size,
			CreatedAt: now,
			ExpiresAt: expires,
		}
		return token, nil
	}
	return "", ErrCollision
}

// Get resolves token to its Entry. Expired entries are treated as absent
// and are evicted immediately, so a reader never needs to wait for the
// background sweep.
func (r *Registry) Get(token string) (Entry, error) {
	now := r.nowFunc()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[token]
	if !ok {
		return Entry{}, ErrNotFound
	}
	if entry.expired(now) {
		delete(r.entries, token)
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

// Delete removes token, returning ErrNotFound if it wasn't present.
func (r *Registry) Delete(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[token]; !ok {
		return ErrNotFound
	}
	delete(r.entries, token)
	return nil
}

// DeleteAll removes every entry and returns how many were removed.
func (r *Registry) DeleteAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.entries)
	r.entries = make(map[string]Entry)
	return n
}

// Count returns the number of live, unexpired entries.
func (r *Registry) Count() int {
	now := r.nowFunc()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

// List returns a page of live entries ordered by creation time (oldest
// first, ties broken by token), per spec §4.4's list(skip, limit)
// pagination operation for operator listing. skip<0 is treated as 0;
// limit<=0 means "no limit" (return everything from skip onward).
func (r *Registry) List(skip, limit int) []Entry {
	now := r.nowFunc()
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.expired(now) {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].Token < all[j].Token
	})

	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) {
		return []Entry{}
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

// sweep evicts every expired entry in one pass.
func (r *Registry) sweep() int {
	now := r.nowFunc()
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for token, e := range r.entries {
		if e.expired(now) {
			delete(r.entries, token)
			evicted++
		}
	}
	return evicted
}

// Run drives the background eviction sweep until ctx is cancelled, at
// sweepInterval (clamped to 60s by configuration per spec §5). Intended to
// be run under an errgroup alongside the edge server.
func (r *Registry) Run(ctx context.Context) error {
	if r.sweepInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n := r.sweep()
			if n > 0 {
				r.log.Debugf("registry: swept %d expired link(s)", n)
			}
			if r.OnSweep != nil {
				r.OnSweep()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
