package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"covercart-backend/internal/domain"
)

func TestDecrementStock_Conditional(t *testing.T) {
	id := primitive.NewObjectID()
	store := NewCoverStore(domain.Cover{ID: id, Name: "Clear Case", Stock: 3})
	ctx := context.Background()

	require.NoError(t, store.DecrementStock(ctx, id, 2))

	err := store.DecrementStock(ctx, id, 2)
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "Clear Case", short.Cover)
	assert.Equal(t, 1, short.Available)

	cover, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, cover.Stock)
}

func TestDecrementStock_UnknownCover(t *testing.T) {
	store := NewCoverStore()
	err := store.DecrementStock(context.Background(), primitive.NewObjectID(), 1)
	require.ErrorIs(t, err, domain.ErrCoverNotFound)
}

// Stock must never go negative no matter how many callers race on it, and the
// number of winners must equal the initial stock.
func TestDecrementStock_Concurrent(t *testing.T) {
	const initial = 50
	const workers = 200

	id := primitive.NewObjectID()
	store := NewCoverStore(domain.Cover{ID: id, Name: "Leather Flip", Stock: initial})
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.DecrementStock(ctx, id, 1); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, initial, successes)
	cover, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, cover.Stock)
}

func TestCoverStoreListPagination(t *testing.T) {
	store := NewCoverStore(
		domain.Cover{Name: "Alpha", Brand: "apex", Stock: 1},
		domain.Cover{Name: "Beta", Brand: "apex", Stock: 1},
		domain.Cover{Name: "Gamma", Brand: "orbit", Stock: 1},
	)

	covers, total, err := store.List(context.Background(), domain.CoverQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, covers, 2)
	assert.Equal(t, "Alpha", covers[0].Name)

	covers, total, err = store.List(context.Background(), domain.CoverQuery{Brand: "apex", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, covers, 2)
}
