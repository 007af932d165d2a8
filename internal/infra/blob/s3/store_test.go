package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"lifetrack/internal/blob/core"
)

func TestMockStoreReplaceSemantics(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if store.Driver() != core.DriverS3 || store.Bucket() != "mock-bucket" {
		t.Fatalf("unexpected store identity %s %s", store.Driver(), store.Bucket())
	}
	if _, err := store.Put(ctx, "slots/financeTracker.json", bytes.NewReader([]byte(`{"a":1}`)), core.PutOptions{ContentType: "application/json"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, err := store.Put(ctx, "slots/financeTracker.json", bytes.NewReader([]byte(`{"a":2}`)), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if info.Size != 7 || info.ETag == "" {
		t.Fatalf("unexpected put info %+v", info)
	}
	got, rc, err := store.Get(ctx, "slots/financeTracker.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != `{"a":2}` {
		t.Fatalf("expected replaced body, got %q", body)
	}
	if got.ContentType != "application/json" {
		t.Fatalf("content type = %q", got.ContentType)
	}
}

func TestMockStoreDeleteAndNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("delete missing = %v %v", ok, err)
	}
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if ok, err := store.Delete(ctx, "k"); err != nil || !ok {
		t.Fatalf("delete existing = %v %v", ok, err)
	}
	if _, _, err := store.Get(ctx, "k"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
}

func TestDecodeChunked(t *testing.T) {
	body := []byte("7;chunk-signature=abc\r\n{\"a\":1}\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n")
	dec, ok := decodeChunked(body)
	if !ok || string(dec) != `{"a":1}` {
		t.Fatalf("decode = %q %v", dec, ok)
	}
	if _, ok := decodeChunked([]byte(`{"a":1}`)); ok {
		t.Fatalf("expected plain payload to be left alone")
	}
}
