package session

import (
	"context"
	"sync"
	"testing"

	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDispatch(t *testing.T) {
	store := NewStore("USD")

	store.AddSeatToBasket(seatA1)
	store.AddSeatToBasket(seatA2)

	state := store.State()
	assert.Len(t, state.Basket.Items, 2)
	assert.True(t, decimal.NewFromInt(55).Equal(state.Basket.TotalPrice))

	store.RemoveSeatFromBasket("A1")
	assert.True(t, decimal.NewFromInt(30).Equal(store.State().Basket.TotalPrice))
}

func TestStoreSnapshotsAreIsolated(t *testing.T) {
	store := NewStore("USD")
	store.ApplySelection([]domain.Seat{seatA1})

	snapshot := store.State()
	snapshot.SelectedSeats[0].ID = "changed"
	snapshot.Basket.Items[0].SeatID = "changed"

	state := store.State()
	assert.Equal(t, "A1", state.SelectedSeats[0].ID)
	assert.Equal(t, "A1", state.Basket.Items[0].SeatID)
}

func TestStoreSubscribe(t *testing.T) {
	store := NewStore("USD")

	var got []State
	unsubscribe := store.Subscribe(func(s State) {
		got = append(got, s)
	})

	store.SetInitialized(true)
	store.SetLoading(true)
	unsubscribe()
	store.SetLoading(false)

	require.Len(t, got, 2)
	assert.True(t, got[0].IsInitialized)
	assert.False(t, got[0].IsLoading)
	assert.True(t, got[1].IsLoading)
}

func TestStoreSubscriberMayDispatch(t *testing.T) {
	store := NewStore("USD")

	store.Subscribe(func(s State) {
		if s.HasError() && s.IsLoading {
			store.SetLoading(false)
		}
	})

	store.Dispatch(Batch{Actions: []Action{SetLoading{Loading: true}, SetError{Message: ptr("boom")}}})

	assert.False(t, store.State().IsLoading)
}

func TestStoreGeneration(t *testing.T) {
	store := NewStore("USD")
	assert.Equal(t, uint64(0), store.Generation())

	store.SetLoading(true)
	assert.Equal(t, uint64(0), store.Generation())

	store.Reset()
	assert.Equal(t, uint64(1), store.Generation())

	store.Dispatch(Batch{Actions: []Action{Reset{Currency: "USD"}, SetInitialized{Initialized: true}}})
	assert.Equal(t, uint64(2), store.Generation())
}

func TestStoreResetKeepsCurrency(t *testing.T) {
	store := NewStore("EUR")
	store.ApplySelection([]domain.Seat{seatA1})

	store.Reset()

	assert.Equal(t, "EUR", store.State().Basket.Currency)
	assert.True(t, store.State().IsBasketEmpty())
}

func TestStoreClose(t *testing.T) {
	store := NewStore("USD")

	calls := 0
	store.Subscribe(func(State) { calls++ })

	store.Close()
	store.SetLoading(true)

	assert.True(t, store.Closed())
	assert.Equal(t, 0, calls)
	assert.PanicsWithValue(t, errClosedStore, func() { store.State() })
}

func TestStoreConcurrentDispatch(t *testing.T) {
	store := NewStore("USD")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddSeatToBasket(seatB1)
		}()
	}
	wg.Wait()

	state := store.State()
	assert.Len(t, state.Basket.Items, 50)
	assert.True(t, decimal.NewFromInt(750).Equal(state.Basket.TotalPrice))
}

func TestStoreDeliversSnapshotsInOrder(t *testing.T) {
	store := NewStore("USD")

	var sizes []int
	store.Subscribe(func(s State) {
		sizes = append(sizes, len(s.Basket.Items))
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddSeatToBasket(seatB1)
		}()
	}
	wg.Wait()

	require.Len(t, sizes, 50)
	for i, size := range sizes {
		assert.Equal(t, i+1, size, "snapshot %d delivered out of order", i)
	}
}

func TestStoreRecoversFromPanickingSubscriber(t *testing.T) {
	store := NewStore("USD")

	calls := 0
	store.Subscribe(func(s State) {
		calls++
		if s.IsLoading {
			panic("subscriber failed")
		}
	})

	assert.Panics(t, func() { store.SetLoading(true) })

	store.SetLoading(false)
	assert.Equal(t, 2, calls)
}

func TestFromContext(t *testing.T) {
	t.Run("should return the bound store", func(t *testing.T) {
		store := NewStore("USD")

		ctx := NewContext(context.Background(), store)

		assert.Same(t, store, FromContext(ctx))
	})

	t.Run("should panic outside of a session", func(t *testing.T) {
		assert.PanicsWithValue(t, "seating session store used outside of a live session", func() {
			FromContext(context.Background())
		})
	})

	t.Run("should panic once the session is closed", func(t *testing.T) {
		store := NewStore("USD")
		ctx := NewContext(context.Background(), store)
		store.Close()

		assert.Panics(t, func() { FromContext(ctx) })
	})
}
