package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SinArtur/Sstu-DB/core/session"
)

func TestManager_ConcurrentMutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore()
	m := session.NewManager(store)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(3)
		go func() {
			defer wg.Done()
			m.SetAuth(ctx, session.User{ID: int64(i + 1)}, fmt.Sprintf("a%d", i), fmt.Sprintf("r%d", i))
		}()
		go func() {
			defer wg.Done()
			m.UpdateUser(ctx, session.UserPatch{Email: session.Ptr(fmt.Sprintf("u%d@x.com", i))})
		}()
		go func() {
			defer wg.Done()
			for range 10 {
				s := m.Snapshot()
				assertInvariant(t, s)
			}
		}()
	}
	wg.Wait()

	m.Logout(ctx)
	m.SetAuth(ctx, session.User{ID: 100}, "final", "final-ref")

	// The store always ends with the newest state.
	data, err := store.Load(ctx, session.DefaultKey)
	require.NoError(t, err)
	persisted, err := session.DecodeRecord(data)
	require.NoError(t, err)
	assert.Equal(t, m.Snapshot(), persisted)
}

func TestManager_ConcurrentPersistOrdering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore()
	m := session.NewManager(store)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				m.SetAuth(ctx, session.User{ID: int64(i + 1)}, fmt.Sprintf("a%d", i), fmt.Sprintf("r%d", i))
				return
			}
			m.Logout(ctx)
		}()
	}
	wg.Wait()

	data, err := store.Load(ctx, session.DefaultKey)
	require.NoError(t, err)
	persisted, err := session.DecodeRecord(data)
	require.NoError(t, err)
	assert.Equal(t, m.Snapshot(), persisted)
}
