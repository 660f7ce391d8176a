package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/garyjia/travel-expense-print/internal/models"
)

// mapReader serves font bytes from memory and records every path it is asked for
type mapReader struct {
	mu    sync.Mutex
	files map[string][]byte
	calls []string
}

func (m *mapReader) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, path)
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *mapReader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestResolver_Resolve(t *testing.T) {
	logger := zap.NewNop()

	t.Run("skips unreadable candidates and stops at the first valid one", func(t *testing.T) {
		reader := &mapReader{files: map[string][]byte{
			"corrupt.ttf": []byte("not a font"),
			"valid.ttf":   goregular.TTF,
			"later.ttf":   gobold.TTF,
		}}
		chains := Chains{RoleBody: {"missing-1.ttf", "missing-2.ttf", "corrupt.ttf", "valid.ttf", "later.ttf"}}
		resolver := NewResolver(chains, logger, WithReader(reader))

		handle, err := resolver.Resolve(RoleBody)

		require.NoError(t, err)
		assert.Equal(t, "valid.ttf", handle.Path())
		assert.Equal(t, goregular.TTF, handle.Bytes())
		assert.Equal(t, []string{"missing-1.ttf", "missing-2.ttf", "corrupt.ttf", "valid.ttf"}, reader.calls)
	})

	t.Run("fails with every attempted path listed", func(t *testing.T) {
		reader := &mapReader{files: map[string][]byte{"bad.ttf": []byte("garbage")}}
		chains := Chains{RoleHeading: {"nope.ttf", "bad.ttf"}}
		resolver := NewResolver(chains, logger, WithReader(reader))

		handle, err := resolver.Resolve(RoleHeading)

		assert.Nil(t, handle)
		require.Error(t, err)
		assert.True(t, models.IsKind(err, models.KindFontLoad))
		assert.True(t, errors.Is(err, ErrNoUsableFont))
		assert.Contains(t, err.Error(), "nope.ttf")
		assert.Contains(t, err.Error(), "bad.ttf")
	})

	t.Run("empty chain is a font load error", func(t *testing.T) {
		resolver := NewResolver(Chains{}, logger, WithReader(&mapReader{}))

		_, err := resolver.Resolve(RoleBody)

		assert.True(t, models.IsKind(err, models.KindFontLoad))
		assert.True(t, errors.Is(err, ErrNoCandidates))
	})

	t.Run("roles resolve independently", func(t *testing.T) {
		reader := &mapReader{files: map[string][]byte{
			"regular.ttf": goregular.TTF,
			"bold.ttf":    gobold.TTF,
		}}
		chains := Chains{
			RoleBody:    {"regular.ttf"},
			RoleHeading: {"bold.ttf", "regular.ttf"},
		}
		resolver := NewResolver(chains, logger, WithReader(reader))

		handles, err := resolver.ResolveAll()

		require.NoError(t, err)
		assert.Equal(t, "regular.ttf", handles[RoleBody].Path())
		assert.Equal(t, "bold.ttf", handles[RoleHeading].Path())
	})

	t.Run("reads real files through the default reader", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "goregular.ttf")
		require.NoError(t, os.WriteFile(path, goregular.TTF, 0644))

		resolver := NewResolver(Chains{RoleBody: {filepath.Join(dir, "absent.ttf"), path}}, logger)

		handle, err := resolver.Resolve(RoleBody)

		require.NoError(t, err)
		assert.Equal(t, path, handle.Path())
	})
}

func TestResolver_CachePolicies(t *testing.T) {
	chains := Chains{RoleBody: {"regular.ttf"}, RoleHeading: {"regular.ttf"}}

	for _, policy := range []CachePolicy{CacheShared, CachePerCall} {
		t.Run(string(policy), func(t *testing.T) {
			reader := &mapReader{files: map[string][]byte{"regular.ttf": goregular.TTF}}
			resolver := NewResolver(chains, zap.NewNop(), WithReader(reader), WithCachePolicy(policy))

			first, err := resolver.Resolve(RoleBody)
			require.NoError(t, err)
			second, err := resolver.Resolve(RoleHeading)
			require.NoError(t, err)

			assert.Equal(t, first.Path(), second.Path())
			assert.InDelta(t, first.TextWidth("Settlement", 10), second.TextWidth("Settlement", 10), 1e-9)

			if policy == CacheShared {
				assert.Same(t, first, second)
				assert.Equal(t, 1, reader.callCount())
				assert.Equal(t, 1, resolver.CacheSize())
			} else {
				assert.Equal(t, 2, reader.callCount())
				assert.Equal(t, 0, resolver.CacheSize())
			}
		})
	}
}

func TestResolver_ConcurrentResolve(t *testing.T) {
	reader := &mapReader{files: map[string][]byte{"regular.ttf": goregular.TTF}}
	resolver := NewResolver(Chains{RoleBody: {"regular.ttf"}}, zap.NewNop(), WithReader(reader))

	var wg sync.WaitGroup
	handles := make([]*Handle, 16)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := resolver.Resolve(RoleBody)
			if err == nil {
				handles[i] = h
				_ = h.TextWidth("concurrent", 8)
			}
		}(i)
	}
	wg.Wait()

	for _, h := range handles {
		require.NotNil(t, h)
		assert.Same(t, handles[0], h)
	}
}

func TestHandle_Metrics(t *testing.T) {
	h, err := Parse("goregular.ttf", goregular.TTF)
	require.NoError(t, err)

	t.Run("width scales linearly with size", func(t *testing.T) {
		w10 := h.TextWidth("Travel", 10)
		w20 := h.TextWidth("Travel", 20)
		assert.Greater(t, w10, 0.0)
		assert.InDelta(t, w10*2, w20, 1e-9)
	})

	t.Run("empty text has no width", func(t *testing.T) {
		assert.Equal(t, 0.0, h.TextWidth("", 10))
	})

	t.Run("glyph coverage", func(t *testing.T) {
		assert.True(t, h.HasGlyph('A'))
		assert.False(t, h.HasGlyph('東'))
	})

	t.Run("name comes from the name table", func(t *testing.T) {
		assert.Contains(t, h.Name(), "Go")
	})

	t.Run("rejects non-font data", func(t *testing.T) {
		_, err := Parse("bad.ttf", []byte("definitely not a font"))
		assert.Error(t, err)
	})
}

func TestChains_Clone(t *testing.T) {
	original := Chains{RoleBody: {"a.ttf"}}
	clone := original.Clone()
	clone[RoleBody][0] = "b.ttf"

	assert.Equal(t, "a.ttf", original[RoleBody][0])
	assert.NotEmpty(t, DefaultChains()[RoleBody])
	assert.NotEmpty(t, DefaultChains()[RoleHeading])
}
