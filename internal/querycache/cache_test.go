package querycache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearboxgarage/gearbox/internal/querycache"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
)

func listKey(family, page string) querycache.Key {
	return querycache.NewKey(family, "list", map[string]string{"page": page})
}

func TestFetch_ServesFreshHitWithoutRefetching(t *testing.T) {
	c := querycache.New()
	key := listKey(querycache.FamilyClients, "1")

	var calls int
	fetch := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"ana"}, nil
	}

	v1, err := querycache.Fetch(context.Background(), c, key, fetch)
	require.NoError(t, err)
	v2, err := querycache.Fetch(context.Background(), c, key, fetch)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls, "second read within the staleness window must not hit the network")
}

func TestFetch_PageNavigationKeepsOtherPagesCached(t *testing.T) {
	c := querycache.New()
	p1 := listKey(querycache.FamilyClients, "1")
	p2 := listKey(querycache.FamilyClients, "2")

	var calls int
	fetch := func(v string) querycache.FetchFunc[string] {
		return func(ctx context.Context) (string, error) {
			calls++
			return v, nil
		}
	}

	_, err := querycache.Fetch(context.Background(), c, p1, fetch("page-1"))
	require.NoError(t, err)
	_, err = querycache.Fetch(context.Background(), c, p2, fetch("page-2"))
	require.NoError(t, err)

	// Navigating back to page 1 is a cache hit.
	v, err := querycache.Fetch(context.Background(), c, p1, fetch("page-1-refetched"))
	require.NoError(t, err)
	assert.Equal(t, "page-1", v)
	assert.Equal(t, 2, calls)
}

func TestFetch_RefetchesAfterStalenessWindow(t *testing.T) {
	c := querycache.New()
	now := time.Now()
	c.SetClock(func() time.Time { return now })

	key := listKey(querycache.FamilyClients, "1")
	var calls int
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return "v", nil
	}

	_, err := querycache.Fetch(context.Background(), c, key, fetch)
	require.NoError(t, err)

	// Clients carry a 120s staleness window.
	now = now.Add(119 * time.Second)
	_, _ = querycache.Fetch(context.Background(), c, key, fetch)
	assert.Equal(t, 1, calls)

	now = now.Add(2 * time.Second)
	_, _ = querycache.Fetch(context.Background(), c, key, fetch)
	assert.Equal(t, 2, calls)
}

func TestFetch_KeepsPreviousValueWhenRefetchFails(t *testing.T) {
	c := querycache.New()
	key := listKey(querycache.FamilyBudgets, "1")

	_, err := querycache.Fetch(context.Background(), c, key,
		func(ctx context.Context) (string, error) { return "previous", nil })
	require.NoError(t, err)

	c.Invalidate(querycache.FamilyBudgets)

	boom := errors.New("boom")
	v, err := querycache.Fetch(context.Background(), c, key,
		func(ctx context.Context) (string, error) { return "", boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "previous", v, "stale value must remain visible while the refetch fails")

	cached, ok := querycache.Cached[string](c, key)
	assert.True(t, ok)
	assert.Equal(t, "previous", cached)
}

func TestFetch_RetriesOnceOnNetworkFailure(t *testing.T) {
	c := querycache.New()
	key := listKey(querycache.FamilyServices, "1")

	var calls int
	v, err := querycache.Fetch(context.Background(), c, key,
		func(ctx context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", &httpclient.NetworkError{Method: "GET", URL: "/services", Err: errors.New("refused")}
			}
			return "recovered", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, 2, calls)
}

func TestFetch_DoesNotRetryHTTPErrors(t *testing.T) {
	c := querycache.New()
	key := listKey(querycache.FamilyServices, "1")

	var calls int
	_, err := querycache.Fetch(context.Background(), c, key,
		func(ctx context.Context) (string, error) {
			calls++
			return "", &httpclient.APIError{Status: 500, Message: "internal"}
		})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetch_CoalescesConcurrentRequests(t *testing.T) {
	c := querycache.New()
	key := listKey(querycache.FamilyClients, "1")

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := querycache.Fetch(context.Background(), c, key, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give the goroutines time to pile up on the same key, then release.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent fetches for one key must share one request")
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestInvalidate_MarksWholeFamilyStale(t *testing.T) {
	c := querycache.New()
	b1 := listKey(querycache.FamilyBudgets, "1")
	b2 := listKey(querycache.FamilyBudgets, "2")
	s1 := listKey(querycache.FamilyServices, "1")
	cl := listKey(querycache.FamilyClients, "1")

	for _, k := range []querycache.Key{b1, b2, s1, cl} {
		_, err := querycache.Fetch(context.Background(), c, k,
			func(ctx context.Context) (string, error) { return "v", nil })
		require.NoError(t, err)
	}

	// Accepting a budget invalidates budgets and services together.
	c.Invalidate(querycache.FamilyBudgets, querycache.FamilyServices)

	assert.True(t, c.State(b1).Stale)
	assert.True(t, c.State(b2).Stale, "every paginated variant of the family goes stale")
	assert.True(t, c.State(s1).Stale)
	assert.False(t, c.State(cl).Stale)
}

func TestInvalidate_StaleEntryRefetchesOnNextRead(t *testing.T) {
	c := querycache.New()
	key := listKey(querycache.FamilyBudgets, "1")

	var calls int
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return "v", nil
	}

	_, _ = querycache.Fetch(context.Background(), c, key, fetch)
	c.Invalidate(querycache.FamilyBudgets)
	_, _ = querycache.Fetch(context.Background(), c, key, fetch)

	assert.Equal(t, 2, calls)
}

func TestClear_EvictsEverything(t *testing.T) {
	c := querycache.New()
	key := listKey(querycache.FamilyUsers, "1")

	_, err := querycache.Fetch(context.Background(), c, key,
		func(ctx context.Context) (string, error) { return "v", nil })
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	c.Clear()

	assert.Zero(t, c.Len())
	_, ok := querycache.Cached[string](c, key)
	assert.False(t, ok)
}

func TestState_UnknownKey(t *testing.T) {
	c := querycache.New()
	st := c.State(listKey(querycache.FamilyCars, "9"))
	assert.False(t, st.HasData)
	assert.False(t, st.Stale)
}
