package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderDeliversOnPoll(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "car.glb"), encode(t, testDocument(), true), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(NewManager(dir), DefaultDecoderConfig())

	var got *Model
	calls := 0
	l.LoadModel("car.glb", func(m *Model, err error) {
		calls++
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		got = m
	})
	l.Wait()

	if calls != 0 {
		t.Fatal("callback must not run before Poll")
	}
	if l.Pending() != 1 {
		t.Errorf("expected 1 pending load, got %d", l.Pending())
	}

	if n := l.Poll(); n != 1 {
		t.Errorf("expected 1 completion, got %d", n)
	}
	if calls != 1 || got == nil {
		t.Fatalf("expected one successful callback, got %d calls", calls)
	}
	if got.MeshCount != 4 {
		t.Errorf("expected 4 meshes, got %d", got.MeshCount)
	}
	if l.Pending() != 0 {
		t.Errorf("expected nothing pending, got %d", l.Pending())
	}
	if l.Poll() != 0 {
		t.Error("second Poll should deliver nothing")
	}
}

// siblingGLTF is a .gltf whose only buffer lives in car.bin next to it.
const siblingGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": "Body", "mesh": 0}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{"bufferView": 0, "componentType": 5126, "type": "VEC3", "count": 1,
    "min": [0, 0, 0], "max": [1, 1, 1]}],
  "bufferViews": [{"buffer": 0, "byteLength": 12}],
  "buffers": [{"uri": "car.bin", "byteLength": 12}]
}`

func TestLoaderGLTFWithSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "car.gltf"), []byte(siblingGLTF), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "car.bin"), make([]byte, 12), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(NewManager(dir), DefaultDecoderConfig())
	var loadErr error
	var model *Model
	l.LoadModel("car.gltf", func(m *Model, err error) { model, loadErr = m, err })
	l.Wait()
	l.Poll()

	if loadErr != nil || model == nil {
		t.Fatalf("expected .gltf to load, got %v", loadErr)
	}
	if model.MeshCount != 1 {
		t.Errorf("expected 1 mesh, got %d", model.MeshCount)
	}

	// Without the sibling buffer the same file must fail
	if err := os.Remove(filepath.Join(dir, "car.bin")); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeModelFile(filepath.Join(dir, "car.gltf"), DefaultDecoderConfig()); err == nil {
		t.Error("expected error when the external buffer is missing")
	}
}

func TestLoaderFailure(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.glb"), []byte("glTF but not really"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(NewManager(dir), DefaultDecoderConfig())

	var missingErr, brokenErr error
	l.LoadModel("missing.glb", func(m *Model, err error) {
		if m != nil {
			t.Error("failed load should not return a model")
		}
		missingErr = err
	})
	l.LoadModel("broken.glb", func(_ *Model, err error) { brokenErr = err })
	l.Wait()

	if n := l.Poll(); n != 2 {
		t.Fatalf("expected 2 completions, got %d", n)
	}
	if !errors.Is(missingErr, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", missingErr)
	}
	if brokenErr == nil {
		t.Error("expected decode error for broken file")
	}
}
