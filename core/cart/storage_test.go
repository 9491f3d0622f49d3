package cart

import (
	"context"
	"testing"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	if _, err := mem.Load(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for a missing cart, got %v", err)
	}

	payload := []byte(`[{"productId":1}]`)
	if err := mem.Save(ctx, "c1", payload); err != nil {
		t.Fatal(err)
	}

	got, err := mem.Load(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("expected %s, got %s", payload, got)
	}

	// mutating the returned slice must not touch the stored copy
	got[0] = 'X'
	again, err := mem.Load(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(payload) {
		t.Fatal("stored payload was mutated through a returned slice")
	}

	if err := mem.Delete(ctx, "c1"); err != nil {
		t.Fatal(err)
	}
	if _, err := mem.Load(ctx, "c1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// deleting twice stays quiet
	if err := mem.Delete(ctx, "c1"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}
