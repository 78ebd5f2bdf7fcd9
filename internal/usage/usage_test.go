package usage_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/autoplaza/dealerbot/internal/usage"
)

func TestMemoryStoreIncrementAndGet(t *testing.T) {
	store, err := usage.NewStore(usage.StoreTypeMemory)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	day := time.Date(2026, 8, 30, 15, 4, 0, 0, time.UTC)

	if count, _ := store.Get(ctx, "config:1:daily", day); count != 0 {
		t.Fatalf("fresh counter got %d want 0", count)
	}

	for i := int64(1); i <= 3; i++ {
		count, err := store.Increment(ctx, "config:1:daily", day)
		if err != nil {
			t.Fatalf("Increment: %v", err)
		}
		if count != i {
			t.Fatalf("count got %d want %d", count, i)
		}
	}

	// Same calendar day, different wall-clock time: same counter
	later := day.Add(5 * time.Hour)
	if count, _ := store.Get(ctx, "config:1:daily", later); count != 3 {
		t.Fatalf("same-day read got %d want 3", count)
	}

	// Different day and different scope are independent
	if count, _ := store.Get(ctx, "config:1:daily", day.AddDate(0, 0, 1)); count != 0 {
		t.Fatalf("next-day counter got %d want 0", count)
	}
	if count, _ := store.Get(ctx, "config:2:daily", day); count != 0 {
		t.Fatalf("other scope got %d want 0", count)
	}
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	store, err := usage.NewStore(usage.StoreTypeMemory)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	day := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Increment(ctx, "scope", day); err != nil {
				t.Errorf("Increment: %v", err)
			}
		}()
	}
	wg.Wait()

	if count, _ := store.Get(ctx, "scope", day); count != 50 {
		t.Fatalf("count got %d want 50", count)
	}
}

func TestMemoryStoreSurvivesClose(t *testing.T) {
	store, err := usage.NewStore(usage.StoreTypeMemory)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	ctx := context.Background()
	day := time.Now()

	if _, err := store.Increment(ctx, "scope", day); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A consume racing shutdown must not blow up
	count, err := store.Increment(ctx, "scope", day)
	if err != nil {
		t.Fatalf("Increment after Close: %v", err)
	}
	if count != 2 {
		t.Fatalf("count got %d want 2", count)
	}
}

func TestNewStoreRejectsBadConfig(t *testing.T) {
	if _, err := usage.NewStore(usage.StoreTypeRedis); err != usage.ErrInvalidConfig {
		t.Fatalf("redis without client: got %v want ErrInvalidConfig", err)
	}
	if _, err := usage.NewStore(usage.StoreTypePostgres); err != usage.ErrInvalidConfig {
		t.Fatalf("postgres without pool: got %v want ErrInvalidConfig", err)
	}
	if _, err := usage.NewStore("etcd"); err != usage.ErrInvalidStoreType {
		t.Fatalf("unknown type: got %v want ErrInvalidStoreType", err)
	}
}

func TestMonthKey(t *testing.T) {
	ts := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if got := usage.MonthKey(ts); !got.Equal(want) {
		t.Fatalf("MonthKey got %v want %v", got, want)
	}
}
