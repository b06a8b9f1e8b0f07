package completer

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ScansOncePerRoot(t *testing.T) {
	c := NewCache()
	var scans int

	scan := func() ([]string, error) {
		scans++
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 3; i++ {
		paths, err := c.GetOrScan("/root", scan)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, paths)
	}
	assert.Equal(t, 1, scans)
	assert.Equal(t, 1, c.Len())
}

func TestCache_RootsAreIndependent(t *testing.T) {
	c := NewCache()

	a, err := c.GetOrScan("/a", func() ([]string, error) { return []string{"x"}, nil })
	require.NoError(t, err)
	b, err := c.GetOrScan("/b", func() ([]string, error) { return []string{"y"}, nil })
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, a)
	assert.Equal(t, []string{"y"}, b)
	assert.Equal(t, 2, c.Len())
}

func TestCache_ConcurrentMissesShareOneScan(t *testing.T) {
	c := NewCache()
	var scans atomic.Int32
	release := make(chan struct{})

	scan := func() ([]string, error) {
		scans.Add(1)
		<-release
		return []string{"shared"}, nil
	}

	const callers = 8
	var started, wg sync.WaitGroup
	started.Add(callers)
	wg.Add(callers)
	results := make([][]string, callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			started.Done()
			results[i], _ = c.GetOrScan("/root", scan)
		}()
	}
	started.Wait()
	close(release)
	wg.Wait()

	// Late arrivals may find the entry already cached; nobody scans twice.
	assert.Equal(t, int32(1), scans.Load())
	for _, r := range results {
		assert.Equal(t, []string{"shared"}, r)
	}
}

func TestCache_FailedScanIsNotCached(t *testing.T) {
	c := NewCache()
	boom := errors.New("boom")

	_, err := c.GetOrScan("/root", func() ([]string, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	paths, err := c.GetOrScan("/root", func() ([]string, error) { return []string{"ok"}, nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, paths)
}
