package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
)

func openStore(t *testing.T, max int) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "nested", "history.db"), max)
	if err := store.Open(context.Background()); err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAssignsIDAndPersists(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, 10)

	saved, err := store.Append(ctx, Entry{
		Source:   "search",
		Query:    "Mar",
		Customer: customer.Customer{CustomerID: "ALFKI", ContactName: "Maria Anders"},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if saved.ID == "" || saved.SelectedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled, got %+v", saved)
	}

	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	got := entries[0]
	if got.ID != saved.ID || got.Query != "Mar" || got.Source != "search" || got.Customer.ContactName != "Maria Anders" {
		t.Fatalf("unexpected entry %+v", got)
	}
	if !got.SelectedAt.Equal(saved.SelectedAt) {
		t.Fatalf("timestamp mismatch: %s vs %s", got.SelectedAt, saved.SelectedAt)
	}
}

func TestAppendPrunesOldest(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, 3)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, Entry{
			SelectedAt: base.Add(time.Duration(i) * time.Minute),
			Customer:   customer.Customer{CustomerID: string(rune('A' + i))},
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries after pruning, got %d", len(entries))
	}
	if entries[0].Customer.CustomerID != "E" || entries[2].Customer.CustomerID != "C" {
		t.Fatalf("expected newest first, got %s..%s", entries[0].Customer.CustomerID, entries[2].Customer.CustomerID)
	}
}

func TestRecentDedupesCustomers(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, 10)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{"A", "B", "A", "C"}
	for i, id := range ids {
		if _, err := store.Append(ctx, Entry{
			SelectedAt: base.Add(time.Duration(i) * time.Second),
			Customer:   customer.Customer{CustomerID: id},
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	recent, err := store.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	var got []string
	for _, e := range recent {
		got = append(got, e.Customer.CustomerID)
	}
	if len(got) != 3 || got[0] != "C" || got[1] != "A" || got[2] != "B" {
		t.Fatalf("unexpected recent order %v", got)
	}
	if two, _ := store.Recent(ctx, 2); len(two) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(two))
	}
}

func TestRecentLimitCountsDistinctCustomers(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, 10)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{"B", "", "", "A", "A", "A"}
	for i, id := range ids {
		if _, err := store.Append(ctx, Entry{
			SelectedAt: base.Add(time.Duration(i) * time.Second),
			Customer:   customer.Customer{CustomerID: id},
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 distinct picks, got %d", len(recent))
	}
	if recent[0].Customer.CustomerID != "A" {
		t.Fatalf("expected newest customer first, got %q", recent[0].Customer.CustomerID)
	}
	if recent[1].Customer.CustomerID != "" || recent[2].Customer.CustomerID != "" {
		t.Fatalf("expected id-less picks to stay separate, got %+v", recent)
	}
	if recent[1].ID == recent[2].ID {
		t.Fatalf("expected two distinct id-less rows")
	}

	none, err := store.Recent(ctx, 0)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no rows for zero limit, got %d (%v)", len(none), err)
	}
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, 10)
	saved, _ := store.Append(ctx, Entry{Customer: customer.Customer{CustomerID: "A"}})
	_, _ = store.Append(ctx, Entry{Customer: customer.Customer{CustomerID: "B"}})

	removed, err := store.Delete(ctx, saved.ID)
	if err != nil || !removed {
		t.Fatalf("expected delete to succeed, got %v %v", removed, err)
	}
	if removed, _ := store.Delete(ctx, saved.ID); removed {
		t.Fatalf("expected second delete to report nothing removed")
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if entries, _ := store.Entries(ctx); len(entries) != 0 {
		t.Fatalf("expected empty history, got %d", len(entries))
	}
}

func TestDeleteDropsCustomerFromRecent(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, 10)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var newest Entry
	for i, id := range []string{"A", "B", "A"} {
		e, err := store.Append(ctx, Entry{
			SelectedAt: base.Add(time.Duration(i) * time.Second),
			Customer:   customer.Customer{CustomerID: id},
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		newest = e
	}

	if removed, err := store.Delete(ctx, newest.ID); err != nil || !removed {
		t.Fatalf("expected delete to succeed, got %v %v", removed, err)
	}
	recent, err := store.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Customer.CustomerID != "B" {
		t.Fatalf("expected only B to remain, got %+v", recent)
	}
}

func TestClosedStoreErrors(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "h.db"), 0)
	if _, err := store.Entries(context.Background()); !errdef.Is(err, errdef.CodeHistory) {
		t.Fatalf("expected history error before open, got %v", err)
	}
}

func TestPruneBefore(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, 10)
	now := time.Now()
	for i, age := range []time.Duration{72 * time.Hour, 36 * time.Hour, time.Hour} {
		_, err := store.Append(ctx, Entry{
			SelectedAt: now.Add(-age),
			Customer:   customer.Customer{CustomerID: string(rune('A' + i))},
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	n, err := store.PruneBefore(ctx, now.Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one pruned entry, got %d", n)
	}
	entries, _ := store.Entries(ctx)
	if len(entries) != 2 || entries[0].Customer.CustomerID != "C" || entries[1].Customer.CustomerID != "B" {
		t.Fatalf("unexpected remaining entries %+v", entries)
	}
}
