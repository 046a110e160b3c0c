package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLoadMissingFileGivesDefault(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s != Default() {
		t.Errorf("Expected default state, got %+v", s)
	}
	if s.CameraPosition != (mgl32.Vec3{0, 0, 3}) {
		t.Errorf("Default camera should sit at (0,0,3), got %v", s.CameraPosition)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	want := ProgramState{
		ClearColor:     mgl32.Vec3{0.1, 0.2, 0.3},
		ImGuiEnabled:   true,
		CameraPosition: mgl32.Vec3{-4.5, 2.25, 17},
		CameraFront:    mgl32.Vec3{0.6, -0.2, -0.77},
		HeightScale:    0.35,
	}

	if err := want.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !got.ClearColor.ApproxEqual(want.ClearColor) ||
		!got.CameraPosition.ApproxEqual(want.CameraPosition) ||
		!got.CameraFront.ApproxEqual(want.CameraFront) {
		t.Errorf("Round trip mismatch: want %+v, got %+v", want, got)
	}
	if got.ImGuiEnabled != want.ImGuiEnabled {
		t.Error("ImGuiEnabled lost in round trip")
	}
	if got.HeightScale != want.HeightScale {
		t.Errorf("HeightScale: want %v, got %v", want.HeightScale, got.HeightScale)
	}
}

func TestDecodeLegacyFile(t *testing.T) {
	legacy := "0.2\n0.3\n0.4\n1\n-7\n2.5\n10\n0\n0\n-1\n"

	s, err := Decode([]byte(legacy))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.ClearColor != (mgl32.Vec3{0.2, 0.3, 0.4}) {
		t.Errorf("Unexpected clear color %v", s.ClearColor)
	}
	if !s.ImGuiEnabled {
		t.Error("ImGuiEnabled should be true")
	}
	if s.CameraPosition != (mgl32.Vec3{-7, 2.5, 10}) {
		t.Errorf("Unexpected position %v", s.CameraPosition)
	}
	if s.HeightScale != DefaultHeightScale {
		t.Errorf("Legacy files should get the default height scale, got %v", s.HeightScale)
	}
}

func TestDecodeLegacyWrongFieldCount(t *testing.T) {
	_, err := Decode([]byte("0\n0\n0\n"))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestDecodeFutureVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version": 99, "camera": {"front": [0,0,-1]}}`))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDecodeRejectsZeroFront(t *testing.T) {
	_, err := Decode([]byte(`{"version": 2, "camera": {"position": [1,2,3], "front": [0,0,0]}}`))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestLoadFirstPrefersEarlierPath(t *testing.T) {
	dir := t.TempDir()
	legacy := filepath.Join(dir, "program_state.txt")
	if err := os.WriteFile(legacy, []byte("0 0 0 0 1 2 3 0 0 -1"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, used, err := LoadFirst(filepath.Join(dir, "program_state.json"), legacy)
	if err != nil {
		t.Fatalf("LoadFirst failed: %v", err)
	}
	if used != legacy {
		t.Errorf("Expected legacy path to be used, got %q", used)
	}
	if s.CameraPosition != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Unexpected position %v", s.CameraPosition)
	}
}
