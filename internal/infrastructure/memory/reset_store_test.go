package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestResetTokenStore_ConsumeOnce(t *testing.T) {
	s := NewResetTokenStore()
	ctx := context.Background()

	_ = s.Save(ctx, "ann@uni.ac.uk", "tok", time.Hour)

	if ok, _ := s.Consume(ctx, "ann@uni.ac.uk", "wrong"); ok {
		t.Fatal("wrong token consumed")
	}
	if ok, _ := s.Consume(ctx, "ann@uni.ac.uk", "tok"); !ok {
		t.Fatal("valid token rejected")
	}
	if ok, _ := s.Consume(ctx, "ann@uni.ac.uk", "tok"); ok {
		t.Fatal("token consumed twice")
	}
}

func TestResetTokenStore_Expiry(t *testing.T) {
	s := NewResetTokenStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Save(ctx, "a@uni.ac.uk", "a", time.Minute)
	_ = s.Save(ctx, "b@uni.ac.uk", "b", time.Hour)

	now = now.Add(2 * time.Minute)

	if ok, _ := s.Consume(ctx, "a@uni.ac.uk", "a"); ok {
		t.Error("expired token consumed")
	}
	_ = s.Save(ctx, "c@uni.ac.uk", "c", time.Second)
	now = now.Add(time.Minute)

	if n := s.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if ok, _ := s.Consume(ctx, "b@uni.ac.uk", "b"); !ok {
		t.Error("live token lost by Sweep")
	}
}

func TestResetTokenStore_ConcurrentConsume(t *testing.T) {
	s := NewResetTokenStore()
	ctx := context.Background()
	_ = s.Save(ctx, "ann@uni.ac.uk", "tok", time.Hour)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Consume(ctx, "ann@uni.ac.uk", "tok"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("%d goroutines consumed the token, want 1", wins.Load())
	}
}
