package memory

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New()

	key, size, mime, err := store.Save(ctx, "batch-1", "resume.txt", strings.NewReader("Skills: Go"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len("Skills: Go")) {
		t.Fatalf("unexpected size %d", size)
	}
	if !strings.HasPrefix(mime, "text/plain") {
		t.Fatalf("unexpected mime %q", mime)
	}
	if !strings.HasSuffix(key, "_resume.txt") {
		t.Fatalf("unexpected key %q", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "Skills: Go" {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestStoreOpenMissing(t *testing.T) {
	_, err := New().Open(context.Background(), "missing")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestStoreRejectsTraversal(t *testing.T) {
	if _, _, _, err := New().Save(context.Background(), "ns", "../x", strings.NewReader("x")); err == nil {
		t.Fatal("expected invalid file name error")
	}
}
