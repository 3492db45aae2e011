package storage_test

import (
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/classpad/classpad-lms/internal/storage"
)

func TestFSStorePutGet(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	key := "classes/c1/abc123.txt"
	if _, err := s.Put(key, strings.NewReader("hello")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "hello" {
		t.Fatalf("got %q", b)
	}
}

func TestFSStoreList(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	for _, key := range []string{
		"classes/c1/bbb.txt",
		"classes/c1/aaa.pdf",
		"classes/c2/zzz.txt",
		"submissions/a1/sss.txt",
	} {
		if _, err := s.Put(key, strings.NewReader("x")); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}
	keys, err := s.List("classes/c1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"classes/c1/aaa.pdf", "classes/c1/bbb.txt"}
	if len(keys) != len(want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
	if !sort.StringsAreSorted(keys) {
		t.Fatalf("keys not sorted: %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}

func TestFSStoreListMissingPrefix(t *testing.T) {
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	keys, err := s.List("classes/nothing-here")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestNewKeyKeepsOnlyExtension(t *testing.T) {
	key := storage.NewKey("classes/c1", "../../etc/Course Notes.PDF")
	if !strings.HasPrefix(key, "classes/c1/") {
		t.Fatalf("key outside namespace: %q", key)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("extension not normalized: %q", key)
	}
	if strings.Contains(key, "Course") || strings.Contains(key, "..") {
		t.Fatalf("original name leaked into key: %q", key)
	}
}
