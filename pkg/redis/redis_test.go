package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestProbeCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := New(Config{Address: mr.Addr()})
	defer cache.Close()

	ctx := context.Background()

	if _, err := cache.GetProbe(ctx, "probe:http://cam"); !errors.Is(err, ErrMiss) {
		t.Fatalf("empty cache err = %v, want ErrMiss", err)
	}

	if err := cache.SetProbe(ctx, "probe:http://cam", `{"resolved_url":"http://cam/video"}`, time.Minute); err != nil {
		t.Fatalf("SetProbe: %v", err)
	}
	got, err := cache.GetProbe(ctx, "probe:http://cam")
	if err != nil || got != `{"resolved_url":"http://cam/video"}` {
		t.Fatalf("GetProbe = %q, %v", got, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := cache.GetProbe(ctx, "probe:http://cam"); !errors.Is(err, ErrMiss) {
		t.Errorf("expired entry err = %v, want ErrMiss", err)
	}

	_ = cache.SetProbe(ctx, "probe:x", "1", time.Minute)
	if err := cache.DeleteProbe(ctx, "probe:x"); err != nil {
		t.Fatalf("DeleteProbe: %v", err)
	}
	if mr.Exists("probe:x") {
		t.Error("key still present after delete")
	}
	if err := cache.DeleteProbe(ctx, "probe:absent"); err != nil {
		t.Errorf("deleting an absent key: %v", err)
	}
}

func TestProbeCache_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := New(Config{Address: mr.Addr()})
	defer cache.Close()
	mr.Close()

	_, err := cache.GetProbe(context.Background(), "probe:http://cam")
	if err == nil || errors.Is(err, ErrMiss) {
		t.Errorf("err = %v, want a connection error", err)
	}
}

func TestNoopCache(t *testing.T) {
	cache := New(Config{})
	ctx := context.Background()

	if err := cache.SetProbe(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("SetProbe: %v", err)
	}
	if _, err := cache.GetProbe(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("noop cache err = %v, want ErrMiss", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
