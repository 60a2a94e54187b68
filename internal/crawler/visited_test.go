package crawler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisitedCheckAndMark(t *testing.T) {
	t.Parallel()

	v := NewVisited()
	require.True(t, v.CheckAndMark("https://example.com/a"))
	require.False(t, v.CheckAndMark("https://example.com/a"))
	require.True(t, v.CheckAndMark("https://example.com/b"))
	require.Equal(t, 2, v.Len())
}

func TestVisitedCheckAndMarkAtomicUnderConcurrency(t *testing.T) {
	t.Parallel()

	v := NewVisited()
	const urls = 50
	const callers = 20

	wins := make([]atomic.Int32, urls)
	var wg sync.WaitGroup
	for c := 0; c < callers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < urls; i++ {
				if v.CheckAndMark(fmt.Sprintf("https://example.com/page%d", i)) {
					wins[i].Add(1)
				}
			}
		}()
	}
	wg.Wait()

	for i := range wins {
		require.Equal(t, int32(1), wins[i].Load(), "url %d claimed more than once", i)
	}
	require.Equal(t, urls, v.Len())
}

func TestVisitedWithSeenSerializesWithMark(t *testing.T) {
	t.Parallel()

	v := NewVisited()
	v.CheckAndMark("https://example.com/a")

	var snapshot []string
	v.WithSeen(func(seen map[string]struct{}) {
		for s := range seen {
			snapshot = append(snapshot, s)
		}
	})
	require.Equal(t, []string{"https://example.com/a"}, snapshot)
}
