package db

import (
	"context"
	"testing"
)

func newTestKV(t *testing.T) *KV {
	t.Helper()
	database, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewKV(database)
}

func TestKV_GetMissing(t *testing.T) {
	kv := newTestKV(t)

	value, found, err := kv.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Errorf("found = true, want false (value %q)", value)
	}
}

func TestKV_PutGetOverwrite(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.Put(ctx, "ifood_clients", `[]`); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := kv.Put(ctx, "ifood_clients", `[{"id":"1"}]`); err != nil {
		t.Fatalf("second Put() error = %v", err)
	}

	value, found, err := kv.Get(ctx, "ifood_clients")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("found = false after Put")
	}
	if value != `[{"id":"1"}]` {
		t.Errorf("value = %q, want overwritten blob", value)
	}
}

func TestKV_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := Init(dir)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := NewKV(first).Put(ctx, "k", "v"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	first.Close()

	second, err := Init(dir)
	if err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	defer second.Close()

	value, found, err := NewKV(second).Get(ctx, "k")
	if err != nil || !found || value != "v" {
		t.Errorf("Get() after reopen = (%q, %v, %v), want (v, true, nil)", value, found, err)
	}
}
