package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestManagerRootPriority(t *testing.T) {
	base := t.TempDir()
	override := t.TempDir()
	writeFile(t, base, "model/car.glb", "base")
	writeFile(t, base, "model/only_base.hdr", "only")
	writeFile(t, override, "model/car.glb", "override")

	m := NewManager(base)
	if err := m.AddRoot(override); err != nil {
		t.Fatalf("AddRoot failed: %v", err)
	}

	data, err := m.Load("model/car.glb")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "override" {
		t.Errorf("expected last root to win, got %q", data)
	}

	data, err = m.Load("model/only_base.hdr")
	if err != nil || string(data) != "only" {
		t.Errorf("expected fallback to earlier root, got %q, %v", data, err)
	}

	if got := m.Roots(); len(got) != 2 || got[1] != override {
		t.Errorf("unexpected roots %v", got)
	}
}

func TestManagerCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.bin", "first")

	m := NewManager(dir)
	if _, err := m.Load("a.bin"); err != nil {
		t.Fatal(err)
	}

	// Cached bytes survive changes on disk
	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, _ := m.Load("a.bin")
	if string(data) != "first" {
		t.Errorf("expected cached data, got %q", data)
	}

	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}

	m.Close()
	hits, misses = m.Cache().Stats()
	if hits != 0 || misses != 0 {
		t.Error("Close should reset the cache")
	}
	if _, err := m.Load("a.bin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Close, got %v", err)
	}
}

func TestManagerCacheFollowsNewRoot(t *testing.T) {
	base := t.TempDir()
	override := t.TempDir()
	writeFile(t, base, "model/car.glb", "base")
	writeFile(t, override, "model/car.glb", "override")

	m := NewManager(base)
	data, err := m.Load("model/car.glb")
	if err != nil || string(data) != "base" {
		t.Fatalf("expected base copy, got %q, %v", data, err)
	}

	if err := m.AddRoot(override); err != nil {
		t.Fatal(err)
	}
	data, err = m.Load("model/car.glb")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "override" {
		t.Errorf("expected the new root to shadow the cached copy, got %q", data)
	}
}

func TestManagerResolve(t *testing.T) {
	dir := t.TempDir()
	abs := writeFile(t, dir, "env.hdr", "x")

	m := NewManager()
	got, err := m.Resolve(abs)
	if err != nil || got != abs {
		t.Errorf("absolute path should resolve to itself, got %q, %v", got, err)
	}

	_, err = m.Resolve(filepath.Join(dir, "missing.hdr"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = m.Load("definitely/not/here.glb")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManagerAddRootErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "file.txt", "x")

	m := NewManager()
	if err := m.AddRoot(filepath.Join(dir, "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
	if err := m.AddRoot(file); err == nil {
		t.Error("expected error for a file root")
	}
}
