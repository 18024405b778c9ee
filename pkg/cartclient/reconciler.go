package cartclient

import (
	"context"
	"errors"
	"fmt"
)

// Result is a reconciled cart operation outcome. Degraded means the server
// could not be reached and the change landed only in local storage; the
// operation still succeeded from the shopper's perspective but is not
// durable across devices.
type Result struct {
	Cart     *Cart
	Degraded bool
}

// SyncReport describes a local-to-server replay. Lines already synced stay
// synced even when later lines fail; there is no rollback.
type SyncReport struct {
	Synced  int
	Failed  []Line
	Reasons []string
}

// Reconciler tries the remote store first and falls back to the local store
// on transport failures only. A business rejection from the server is
// surfaced verbatim and never masked by fallback. A nil remote store means
// no authenticated session: every operation goes straight to local.
type Reconciler struct {
	remote Store
	local  Store
}

func NewReconciler(remote, local Store) *Reconciler {
	return &Reconciler{remote: remote, local: local}
}

func (r *Reconciler) Get(ctx context.Context) (Result, error) {
	if r.remote == nil {
		cart, err := r.local.Get(ctx)
		return Result{Cart: cart, Degraded: true}, err
	}

	cart, err := r.remote.Get(ctx)
	if err == nil {
		return Result{Cart: cart}, nil
	}
	if !errors.Is(err, ErrUnreachable) {
		return Result{}, err
	}

	cart, errLocal := r.local.Get(ctx)
	return Result{Cart: cart, Degraded: true}, errLocal
}

func (r *Reconciler) AddItem(ctx context.Context, product Product, size string, quantity int) (Result, error) {
	return r.mutate(ctx,
		func(s Store) (*Cart, error) { return s.Add(ctx, product, size, quantity) })
}

func (r *Reconciler) UpdateQuantity(ctx context.Context, productID, size string, quantity int) (Result, error) {
	return r.mutate(ctx,
		func(s Store) (*Cart, error) { return s.UpdateQuantity(ctx, productID, size, quantity) })
}

func (r *Reconciler) RemoveItem(ctx context.Context, productID, size string) (Result, error) {
	return r.mutate(ctx,
		func(s Store) (*Cart, error) { return s.Remove(ctx, productID, size) })
}

// Clear always succeeds locally even when the remote clear fails; local
// state is authoritative for the immediate UI.
func (r *Reconciler) Clear(ctx context.Context) (Result, error) {
	degraded := false
	if r.remote != nil {
		if err := r.remote.Clear(ctx); err != nil {
			if !errors.Is(err, ErrUnreachable) {
				return Result{}, err
			}
			degraded = true
		}
	} else {
		degraded = true
	}

	if err := r.local.Clear(ctx); err != nil {
		return Result{}, err
	}
	return Result{Cart: &Cart{}, Degraded: degraded}, nil
}

// SyncLocalToServer replays the local cart onto the server after login: the
// server cart is cleared first, then every local line is added in list
// order. Partial failures are reported, not rolled back.
func (r *Reconciler) SyncLocalToServer(ctx context.Context) (SyncReport, error) {
	if r.remote == nil {
		return SyncReport{}, fmt.Errorf("no authenticated session")
	}

	local, err := r.local.Get(ctx)
	if err != nil {
		return SyncReport{}, err
	}
	if len(local.Lines) == 0 {
		return SyncReport{}, nil
	}

	if err := r.remote.Clear(ctx); err != nil {
		return SyncReport{}, err
	}

	var report SyncReport
	for _, line := range local.Lines {
		product := Product{
			ID:    line.ProductID,
			Name:  line.Name,
			Price: line.Price,
			Sizes: []string{line.Size},
			Stock: line.Quantity,
		}
		if _, err := r.remote.Add(ctx, product, line.Size, line.Quantity); err != nil {
			report.Failed = append(report.Failed, line)
			report.Reasons = append(report.Reasons, err.Error())
			continue
		}
		report.Synced++
	}

	if len(report.Failed) == 0 {
		if err := r.local.Clear(ctx); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (r *Reconciler) mutate(ctx context.Context, op func(Store) (*Cart, error)) (Result, error) {
	if r.remote == nil {
		cart, err := op(r.local)
		if err != nil {
			return Result{}, err
		}
		return Result{Cart: cart, Degraded: true}, nil
	}

	cart, err := op(r.remote)
	if err == nil {
		return Result{Cart: cart}, nil
	}
	if !errors.Is(err, ErrUnreachable) {
		return Result{}, err // the server said no; surface it verbatim
	}

	cart, errLocal := op(r.local)
	if errLocal != nil {
		return Result{}, errLocal
	}
	return Result{Cart: cart, Degraded: true}, nil
}
