// Package reviewclient provides a Go client for the invoice review API with
// an optimistic local cache that reconciles against server responses.
package reviewclient

import (
	"fmt"
	"sort"
	"sync"
)

// Store is an in-memory invoice cache. Mutations are optimistic: callers
// take a snapshot before applying a local change, then either commit the
// server's authoritative record or revert to the snapshot.
type Store struct {
	mu       sync.RWMutex
	invoices map[string]Invoice
}

// Snapshot captures one invoice's state before an optimistic mutation.
type Snapshot struct {
	invoice Invoice
	existed bool
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{invoices: make(map[string]Invoice)}
}

// ReplaceAll swaps the entire cache content, e.g. after a full list fetch.
func (s *Store) ReplaceAll(invoices []Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = make(map[string]Invoice, len(invoices))
	for _, inv := range invoices {
		s.invoices[inv.ID] = cloneInvoice(inv)
	}
}

// Upsert stores or replaces one invoice.
func (s *Store) Upsert(inv Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = cloneInvoice(inv)
}

// Get returns a copy of the invoice, if cached.
func (s *Store) Get(id string) (Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return Invoice{}, false
	}
	return cloneInvoice(inv), true
}

// All returns every cached invoice, newest upload first.
func (s *Store) All() []Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		result = append(result, cloneInvoice(inv))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})
	return result
}

// Len returns the number of cached invoices
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.invoices)
}

// ApplyOptimistic flips an anomaly's resolved flag locally and recomputes
// the invoice status, returning a snapshot for a later revert. The cache is
// untouched when the invoice or anomaly is unknown.
func (s *Store) ApplyOptimistic(invoiceID, anomalyID string, resolved bool) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[invoiceID]
	if !ok {
		return Snapshot{}, fmt.Errorf("invoice %q not cached", invoiceID)
	}

	snap := Snapshot{invoice: cloneInvoice(inv), existed: true}

	updated := cloneInvoice(inv)
	found := false
	for idx := range updated.Anomalies {
		if updated.Anomalies[idx].ID == anomalyID {
			updated.Anomalies[idx].Resolved = resolved
			found = true
			break
		}
	}
	if !found {
		return Snapshot{}, fmt.Errorf("anomaly %q not found on invoice %q", anomalyID, invoiceID)
	}

	// Mirror the server's status rule until the authoritative record lands.
	if updated.AllResolved() {
		updated.Status = StatusVerified
	} else {
		updated.Status = StatusPending
	}

	s.invoices[invoiceID] = updated
	return snap, nil
}

// Commit replaces the optimistic record with the server's authoritative one.
func (s *Store) Commit(inv Invoice) {
	s.Upsert(inv)
}

// Revert restores the invoice captured in the snapshot.
func (s *Store) Revert(snap Snapshot) {
	if !snap.existed {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[snap.invoice.ID] = cloneInvoice(snap.invoice)
}

// cloneInvoice deep-copies an invoice so cache entries never share the
// anomaly slice with callers.
func cloneInvoice(inv Invoice) Invoice {
	cp := inv
	cp.Anomalies = append([]Anomaly(nil), inv.Anomalies...)
	return cp
}
