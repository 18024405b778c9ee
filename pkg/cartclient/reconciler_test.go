package cartclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore wraps a LocalStore and fails every operation with the given
// error while Down is set, standing in for an unreachable or rejecting
// server.
type flakyStore struct {
	*LocalStore
	Down    bool
	FailErr error

	AddCalls   []string // "productID/size/quantity" in call order
	ClearCalls int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{LocalStore: NewLocalStore(""), FailErr: ErrUnreachable}
}

func (f *flakyStore) Get(ctx context.Context) (*Cart, error) {
	if f.Down {
		return nil, f.FailErr
	}
	return f.LocalStore.Get(ctx)
}

func (f *flakyStore) Add(ctx context.Context, product Product, size string, quantity int) (*Cart, error) {
	if f.Down {
		return nil, f.FailErr
	}
	cart, err := f.LocalStore.Add(ctx, product, size, quantity)
	if err == nil {
		f.AddCalls = append(f.AddCalls, product.ID+"/"+size)
	}
	return cart, err
}

func (f *flakyStore) UpdateQuantity(ctx context.Context, productID, size string, quantity int) (*Cart, error) {
	if f.Down {
		return nil, f.FailErr
	}
	return f.LocalStore.UpdateQuantity(ctx, productID, size, quantity)
}

func (f *flakyStore) Remove(ctx context.Context, productID, size string) (*Cart, error) {
	if f.Down {
		return nil, f.FailErr
	}
	return f.LocalStore.Remove(ctx, productID, size)
}

func (f *flakyStore) Clear(ctx context.Context) error {
	if f.Down {
		return f.FailErr
	}
	f.ClearCalls++
	return f.LocalStore.Clear(ctx)
}

func TestReconciler_PrefersRemote(t *testing.T) {
	remote := newFlakyStore()
	local := NewLocalStore("")
	rec := NewReconciler(remote, local)

	result, err := rec.AddItem(context.Background(), hoodie(10), "M", 2)

	require.NoError(t, err)
	assert.False(t, result.Degraded)
	assert.Len(t, result.Cart.Lines, 1)

	// The change landed remotely, not locally.
	localCart, _ := local.Get(context.Background())
	assert.Empty(t, localCart.Lines)
}

func TestReconciler_FallsBackWhenUnreachable(t *testing.T) {
	remote := newFlakyStore()
	remote.Down = true
	local := NewLocalStore("")
	rec := NewReconciler(remote, local)

	result, err := rec.AddItem(context.Background(), hoodie(10), "M", 2)

	require.NoError(t, err)
	assert.True(t, result.Degraded, "a transport failure degrades to local storage")
	require.Len(t, result.Cart.Lines, 1)

	localCart, _ := local.Get(context.Background())
	assert.Len(t, localCart.Lines, 1)
}

func TestReconciler_BusinessRejectionIsNotMasked(t *testing.T) {
	remote := newFlakyStore()
	remote.Down = true
	remote.FailErr = &RejectedError{Status: 400, Message: "insufficient stock for Campus Hoodie: only 3 available"}
	local := NewLocalStore("")
	rec := NewReconciler(remote, local)

	_, err := rec.AddItem(context.Background(), hoodie(10), "M", 2)

	// The server said no; the answer stands and nothing lands locally.
	assert.EqualError(t, err, "insufficient stock for Campus Hoodie: only 3 available")
	localCart, _ := local.Get(context.Background())
	assert.Empty(t, localCart.Lines)
}

func TestReconciler_NilRemoteGoesStraightToLocal(t *testing.T) {
	local := NewLocalStore("")
	rec := NewReconciler(nil, local)

	result, err := rec.AddItem(context.Background(), hoodie(10), "M", 1)
	require.NoError(t, err)
	assert.True(t, result.Degraded)

	got, err := rec.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Degraded)
	assert.Len(t, got.Cart.Lines, 1)
}

func TestReconciler_Get_FallsBack(t *testing.T) {
	remote := newFlakyStore()
	local := NewLocalStore("")
	_, err := local.Add(context.Background(), hoodie(10), "M", 3)
	require.NoError(t, err)
	rec := NewReconciler(remote, local)

	result, err := rec.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Degraded)
	assert.Empty(t, result.Cart.Lines, "remote cart wins while the server is up")

	remote.Down = true
	result, err = rec.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Len(t, result.Cart.Lines, 1)
}

func TestReconciler_Clear_AlwaysClearsLocal(t *testing.T) {
	remote := newFlakyStore()
	remote.Down = true
	local := NewLocalStore("")
	_, err := local.Add(context.Background(), hoodie(10), "M", 3)
	require.NoError(t, err)
	rec := NewReconciler(remote, local)

	result, err := rec.Clear(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	localCart, _ := local.Get(context.Background())
	assert.Empty(t, localCart.Lines)
}

func TestReconciler_SyncLocalToServer_ReplaysInOrder(t *testing.T) {
	remote := newFlakyStore()
	local := NewLocalStore("")
	ctx := context.Background()

	_, err := local.Add(ctx, hoodie(10), "M", 2)
	require.NoError(t, err)
	tee := Product{ID: "p2", Name: "DBU Tee", Price: 250, Stock: 5, Sizes: []string{"M"}}
	_, err = local.Add(ctx, tee, "M", 1)
	require.NoError(t, err)

	// The server cart holds something from another session; sync starts from
	// a clean slate.
	_, err = remote.LocalStore.Add(ctx, Product{ID: "p9", Name: "Old", Price: 100, Stock: 9, Sizes: []string{"S"}}, "S", 1)
	require.NoError(t, err)

	rec := NewReconciler(remote, local)
	report, err := rec.SyncLocalToServer(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Synced)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 1, remote.ClearCalls)
	assert.Equal(t, []string{"p1/M", "p2/M"}, remote.AddCalls, "lines replay in list order")

	remoteCart, _ := remote.LocalStore.Get(ctx)
	assert.Len(t, remoteCart.Lines, 2)

	// A fully synced local cart is emptied.
	localCart, _ := local.Get(ctx)
	assert.Empty(t, localCart.Lines)
}

// rejectSecondAdd lets the first replayed line through and rejects the rest,
// the shape of a stock level that changed while the shopper was offline.
type rejectSecondAdd struct {
	*flakyStore
	adds int
}

func (r *rejectSecondAdd) Add(ctx context.Context, product Product, size string, quantity int) (*Cart, error) {
	r.adds++
	if r.adds > 1 {
		return nil, &RejectedError{Status: 400, Message: "insufficient stock for DBU Tee: only 0 available"}
	}
	return r.flakyStore.Add(ctx, product, size, quantity)
}

func TestReconciler_SyncLocalToServer_PartialFailure(t *testing.T) {
	remote := &rejectSecondAdd{flakyStore: newFlakyStore()}
	local := NewLocalStore("")
	ctx := context.Background()

	_, err := local.Add(ctx, hoodie(10), "M", 2)
	require.NoError(t, err)
	tee := Product{ID: "p2", Name: "DBU Tee", Price: 250, Stock: 5, Sizes: []string{"M"}}
	_, err = local.Add(ctx, tee, "M", 1)
	require.NoError(t, err)

	rec := NewReconciler(remote, local)
	report, err := rec.SyncLocalToServer(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "p2", report.Failed[0].ProductID)
	require.Len(t, report.Reasons, 1)
	assert.Contains(t, report.Reasons[0], "insufficient stock")

	// Partial syncs keep the local cart so nothing is silently lost.
	localCart, _ := local.Get(ctx)
	assert.Len(t, localCart.Lines, 2)
}

func TestReconciler_SyncLocalToServer_EmptyLocalIsNoOp(t *testing.T) {
	remote := newFlakyStore()
	rec := NewReconciler(remote, NewLocalStore(""))

	report, err := rec.SyncLocalToServer(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.Synced)
	assert.Zero(t, remote.ClearCalls, "an empty local cart must not clear the server cart")
}

func TestReconciler_SyncLocalToServer_RequiresSession(t *testing.T) {
	rec := NewReconciler(nil, NewLocalStore(""))

	_, err := rec.SyncLocalToServer(context.Background())

	assert.Error(t, err)
}
