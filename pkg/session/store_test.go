package session

import (
	"context"
	"testing"
	"time"

	"storebot/pkg/logger"
)

func TestMemoryStoreLoadCreatesEmptyState(t *testing.T) {
	store := NewMemoryStore(logger.Nop(), time.Hour)
	defer store.Close()

	st, err := store.Load(context.Background(), "telegram:1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st == nil || st.Pending != nil || st.Menu != nil {
		t.Fatalf("expected fresh empty state, got %+v", st)
	}

	st.StartFlow(&Pending{Kind: FlowMarkShipped})
	again, err := store.Load(context.Background(), "telegram:1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if again.Pending == nil || again.Pending.Kind != FlowMarkShipped {
		t.Fatal("expected state to persist across loads")
	}
}

func TestMemoryStorePruneRemovesIdleSessions(t *testing.T) {
	store := NewMemoryStore(logger.Nop(), 10*time.Minute)
	defer store.Close()

	ctx := context.Background()
	if _, err := store.Load(ctx, "a"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := store.Load(ctx, "b"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}

	if removed := store.Prune(time.Now()); removed != 0 {
		t.Fatalf("fresh sessions must survive, removed %d", removed)
	}
	if removed := store.Prune(time.Now().Add(time.Hour)); removed != 2 {
		t.Fatalf("expected 2 pruned, got %d", removed)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(logger.Nop(), time.Hour)
	defer store.Close()

	ctx := context.Background()
	st, _ := store.Load(ctx, "a")
	st.SetFilter(SalesFilter{Email: "x@y.z"})

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	fresh, _ := store.Load(ctx, "a")
	if fresh.SalesFilter != nil {
		t.Fatal("expected fresh state after delete")
	}
}

func TestManagerWithPersistsMutations(t *testing.T) {
	store := NewMemoryStore(logger.Nop(), time.Hour)
	m := NewManager(logger.Nop(), store)
	defer m.Close()

	ctx := context.Background()
	err := m.With(ctx, "webchat:abc", func(st *State) error {
		st.StartFlow(&Pending{Kind: FlowCreateWebhook, Resource: "sale"})
		return nil
	})
	if err != nil {
		t.Fatalf("with: %v", err)
	}

	err = m.With(ctx, "webchat:abc", func(st *State) error {
		if st.Pending == nil || st.Pending.Resource != "sale" {
			t.Fatalf("expected persisted flow, got %+v", st.Pending)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with: %v", err)
	}
}
