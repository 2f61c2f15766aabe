// Package cache persists scraped profiles between runs with thundering
// herd prevention. Scraping a profile costs a full browser navigation, so
// the default TTL is short enough to stay fresh but long enough to absorb
// repeated scans of the same target list.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/localfs"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"

	"github.com/codeGROOVE-dev/socialite/profile"
)

// DefaultTTL is how long a scraped profile stays fresh.
const DefaultTTL = 15 * time.Minute

// Stats tracks cache hit/miss counts.
type Stats struct {
	Hits   int64
	Misses int64
}

var (
	hits   atomic.Int64
	misses atomic.Int64
)

// CacheStats returns the current cache statistics.
func CacheStats() Stats {
	return Stats{Hits: hits.Load(), Misses: misses.Load()}
}

// ResetStats resets the cache statistics.
func ResetStats() {
	hits.Store(0)
	misses.Store(0)
}

// Store caches serialized profiles keyed by hashed URL.
type Store struct {
	*sfcache.TieredCache[string, []byte]

	ttl time.Duration
}

// New creates a Store with disk persistence at ~/.cache/socialite.
func New(ttl time.Duration) (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return NewWithPath(ttl, filepath.Join(cacheDir, "socialite"))
}

// NewNull creates a Store with no persistence (all gets miss, all sets discard).
func NewNull() *Store {
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte]())
	if err != nil {
		panic("sfcache.NewTiered with null store: " + err.Error())
	}
	return &Store{TieredCache: tc, ttl: 0}
}

// NewWithPath creates a Store with disk persistence at the specified path.
func NewWithPath(ttl time.Duration, cachePath string) (*Store, error) {
	if err := os.MkdirAll(cachePath, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	persist, err := localfs.New[string, []byte]("socialite", cachePath)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}

	tc, err := sfcache.NewTiered[string, []byte](persist, sfcache.TTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &Store{TieredCache: tc, ttl: ttl}, nil
}

// TTL returns the default TTL for cache entries.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// URLToKey converts a URL to a cache key using SHA256 hash.
func URLToKey(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(hash[:])
}

// degradedError carries a failed profile out of the fetch closure so it
// reaches the caller without being cached.
type degradedError struct{ p *profile.Profile }

func (*degradedError) Error() string { return "profile scrape degraded" }

// Profile returns the cached profile for url, scraping it via fetch on a
// miss. Concurrent callers for the same URL share one scrape. Profiles
// carrying an error are returned but never cached, so a transient failure
// does not poison the store until the TTL expires.
func (s *Store) Profile(ctx context.Context, url string, fetch func(context.Context) (*profile.Profile, error)) (*profile.Profile, error) {
	var wasFetched bool
	data, err := s.GetSet(ctx, URLToKey(url), func(ctx context.Context) ([]byte, error) {
		wasFetched = true
		misses.Add(1)
		p, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		encoded, encErr := json.Marshal(p)
		if encErr != nil {
			return nil, fmt.Errorf("encoding profile: %w", encErr)
		}
		if p.Error != "" {
			return nil, &degradedError{p: p}
		}
		return encoded, nil
	}, s.ttl)

	var degraded *degradedError
	if errors.As(err, &degraded) {
		return degraded.p, nil
	}
	if err != nil {
		return nil, err
	}
	if !wasFetched {
		hits.Add(1)
	}

	p := &profile.Profile{}
	if err := json.Unmarshal(data, p); err != nil {
		// A corrupt entry falls through to a fresh scrape.
		misses.Add(1)
		return fetch(ctx)
	}
	return p, nil
}
