package session

import "context"

type contextKey string

const storeContextKey = contextKey("seatingSession")

func NewContext(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey, store)
}

// FromContext returns the store bound to ctx. Asking for it outside a live
// session is a programming error and panics.
func FromContext(ctx context.Context) *Store {
	store, ok := ctx.Value(storeContextKey).(*Store)
	if !ok || store == nil {
		panic("seating session store used outside of a live session")
	}

	if store.Closed() {
		panic(errClosedStore)
	}

	return store
}
