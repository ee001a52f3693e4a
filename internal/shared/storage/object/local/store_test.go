package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestStoreSaveAndOpen(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	key, size, _, err := store.Save(ctx, "candidate-7", "resume.txt", strings.NewReader("Experience: 2 years"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len("Experience: 2 years")) {
		t.Fatalf("unexpected size %d", size)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "Experience: 2 years" {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestStoreSaveWithKeyRejectsTraversal(t *testing.T) {
	store := New(t.TempDir()).(*Store)
	if _, err := store.SaveWithKey(context.Background(), "../escape.txt", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatal("expected invalid storage key error")
	}
	if _, err := store.Open(context.Background(), "/etc/passwd"); err == nil {
		t.Fatal("expected invalid storage key error")
	}
}
