package reviewclient

import "context"

// Reconciler combines the HTTP client with the optimistic Store. Reads keep
// the cache fresh; resolution toggles apply locally first, then commit the
// server's record or revert on failure.
type Reconciler struct {
	client *Client
	store  *Store
}

// NewReconciler creates a Reconciler over the given client
func NewReconciler(client *Client) *Reconciler {
	return &Reconciler{
		client: client,
		store:  NewStore(),
	}
}

// Store exposes the local cache for reads.
func (r *Reconciler) Store() *Store {
	return r.store
}

// Refresh fetches the full invoice list and replaces the cache.
func (r *Reconciler) Refresh(ctx context.Context) ([]Invoice, error) {
	invoices, err := r.client.List(ctx)
	if err != nil {
		return nil, err
	}
	r.store.ReplaceAll(invoices)
	return invoices, nil
}

// Analyze uploads files and merges the created invoices into the cache.
func (r *Reconciler) Analyze(ctx context.Context, files []UploadFile) ([]Invoice, error) {
	invoices, err := r.client.Analyze(ctx, files)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		r.store.Upsert(inv)
	}
	return invoices, nil
}

// ResolveAnomaly applies the toggle optimistically, then reconciles with the
// server. On success the cache holds the server's record wholesale; on
// failure the pre-mutation snapshot is restored and the error returned.
func (r *Reconciler) ResolveAnomaly(ctx context.Context, invoiceID, anomalyID string, resolved bool) (*Invoice, error) {
	snap, err := r.store.ApplyOptimistic(invoiceID, anomalyID, resolved)
	if err != nil {
		// Not cached locally: go straight to the server.
		invoice, err := r.client.ResolveAnomaly(ctx, invoiceID, anomalyID, resolved)
		if err != nil {
			return nil, err
		}
		r.store.Commit(*invoice)
		return invoice, nil
	}

	invoice, err := r.client.ResolveAnomaly(ctx, invoiceID, anomalyID, resolved)
	if err != nil {
		r.store.Revert(snap)
		return nil, err
	}

	r.store.Commit(*invoice)
	return invoice, nil
}
