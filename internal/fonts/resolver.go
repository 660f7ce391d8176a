// Package fonts resolves the embedded Japanese typefaces the settlement form
// is printed with. Each role walks its own ordered candidate list; the first
// file that reads and parses wins. There is no fallback to a generic font:
// printed characters must match the record exactly.
package fonts

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/garyjia/travel-expense-print/internal/models"
)

// FileReader reads raw font bytes
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// OSFileReader reads from the local filesystem
type OSFileReader struct{}

func (OSFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// CachePolicy controls whether parsed handles outlive a Resolve call
type CachePolicy string

const (
	CacheShared  CachePolicy = "shared"   // parsed once per path for the process lifetime
	CachePerCall CachePolicy = "per-call" // reloaded on every Resolve
)

// Resolver resolves a font handle per role
type Resolver struct {
	chains Chains
	reader FileReader
	policy CachePolicy
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]*Handle
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithReader replaces the filesystem collaborator
func WithReader(reader FileReader) Option {
	return func(r *Resolver) { r.reader = reader }
}

// WithCachePolicy selects the caching policy
func WithCachePolicy(policy CachePolicy) Option {
	return func(r *Resolver) { r.policy = policy }
}

// NewResolver creates a resolver over the given chains. A nil chains value
// selects DefaultChains.
func NewResolver(chains Chains, logger *zap.Logger, opts ...Option) *Resolver {
	if chains == nil {
		chains = DefaultChains()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		chains: chains.Clone(),
		reader: OSFileReader{},
		policy: CacheShared,
		logger: logger,
		cache:  make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidates returns a copy of the candidate list for role
func (r *Resolver) Candidates(role Role) []string {
	return append([]string(nil), r.chains[role]...)
}

// Resolve returns the first candidate of role that reads and parses.
// Candidates after the winning one are never touched.
func (r *Resolver) Resolve(role Role) (*Handle, error) {
	candidates := r.chains[role]
	if len(candidates) == 0 {
		return nil, models.NewFontLoadError(fmt.Sprintf("no font candidates configured for role %q", role), ErrNoCandidates)
	}

	var failures []string
	for _, path := range candidates {
		handle, err := r.load(path)
		if err != nil {
			r.logger.Debug("Font candidate rejected",
				zap.String("role", string(role)),
				zap.String("path", path),
				zap.Error(err))
			failures = append(failures, fmt.Sprintf("%s (%v)", path, err))
			continue
		}

		r.logger.Debug("Font resolved",
			zap.String("role", string(role)),
			zap.String("path", path),
			zap.String("name", handle.Name()))
		return handle, nil
	}

	return nil, models.NewFontLoadError(
		fmt.Sprintf("no usable font for role %q; tried: %s", role, strings.Join(failures, "; ")),
		ErrNoUsableFont)
}

// ResolveAll resolves every role in Roles
func (r *Resolver) ResolveAll() (map[Role]*Handle, error) {
	handles := make(map[Role]*Handle, len(Roles))
	for _, role := range Roles {
		h, err := r.Resolve(role)
		if err != nil {
			return nil, err
		}
		handles[role] = h
	}
	return handles, nil
}

func (r *Resolver) load(path string) (*Handle, error) {
	if r.policy == CacheShared {
		r.mu.RLock()
		h, ok := r.cache[path]
		r.mu.RUnlock()
		if ok {
			return h, nil
		}
	}

	data, err := r.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	if r.policy == CacheShared {
		r.mu.Lock()
		if existing, ok := r.cache[path]; ok {
			h = existing
		} else {
			r.cache[path] = h
		}
		r.mu.Unlock()
	}
	return h, nil
}

// CacheSize returns the number of parsed handles held by the cache
func (r *Resolver) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
