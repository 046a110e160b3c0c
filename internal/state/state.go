package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// CurrentVersion is written by Save. Version 1 is the legacy ten-line file.
const CurrentVersion = 2

const (
	DefaultHeightScale = 0.1
	legacyFieldCount   = 10
)

var (
	ErrUnsupportedVersion = errors.New("state: unsupported version")
	ErrMalformed          = errors.New("state: malformed file")
)

// ProgramState is the part of the viewer that survives a restart.
type ProgramState struct {
	ClearColor     mgl32.Vec3
	ImGuiEnabled   bool
	CameraPosition mgl32.Vec3
	CameraFront    mgl32.Vec3
	HeightScale    float32
}

// Default is the state used when no file exists yet.
func Default() ProgramState {
	return ProgramState{
		CameraPosition: mgl32.Vec3{0, 0, 3},
		CameraFront:    mgl32.Vec3{0, 0, -1},
		HeightScale:    DefaultHeightScale,
	}
}

type document struct {
	Version      int        `json:"version"`
	ClearColor   [3]float32 `json:"clear_color"`
	ImGuiEnabled bool       `json:"imgui_enabled"`
	Camera       struct {
		Position [3]float32 `json:"position"`
		Front    [3]float32 `json:"front"`
	} `json:"camera"`
	HeightScale *float32 `json:"height_scale,omitempty"`
}

// Load reads the state file at path. A missing file yields Default.
// Both the versioned JSON document and the legacy positional format
// are accepted.
func Load(path string) (ProgramState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("state: read %s: %w", path, err)
	}
	return Decode(data)
}

// LoadFirst loads the first of paths that exists, falling back to Default.
// It returns the path that was read, or "" when none existed.
func LoadFirst(paths ...string) (ProgramState, string, error) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		s, err := Load(p)
		return s, p, err
	}
	return Default(), "", nil
}

// Decode parses either file format.
func Decode(data []byte) (ProgramState, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Default(), nil
	}
	if trimmed[0] == '{' {
		return decodeDocument(trimmed)
	}
	return decodeLegacy(string(trimmed))
}

func decodeDocument(data []byte) (ProgramState, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Version < 1 || doc.Version > CurrentVersion {
		return Default(), fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	s := ProgramState{
		ClearColor:     mgl32.Vec3(doc.ClearColor),
		ImGuiEnabled:   doc.ImGuiEnabled,
		CameraPosition: mgl32.Vec3(doc.Camera.Position),
		CameraFront:    mgl32.Vec3(doc.Camera.Front),
		HeightScale:    DefaultHeightScale,
	}
	if doc.HeightScale != nil {
		s.HeightScale = *doc.HeightScale
	}
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

func decodeLegacy(text string) (ProgramState, error) {
	fields := strings.Fields(text)
	if len(fields) != legacyFieldCount {
		return Default(), fmt.Errorf("%w: legacy file has %d fields, want %d", ErrMalformed, len(fields), legacyFieldCount)
	}

	var vals [legacyFieldCount]float32
	for i, f := range fields {
		if i == 3 {
			continue
		}
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return Default(), fmt.Errorf("%w: field %d: %v", ErrMalformed, i+1, err)
		}
		vals[i] = float32(v)
	}
	imgui, err := parseLegacyBool(fields[3])
	if err != nil {
		return Default(), fmt.Errorf("%w: field 4: %v", ErrMalformed, err)
	}

	s := ProgramState{
		ClearColor:     mgl32.Vec3{vals[0], vals[1], vals[2]},
		ImGuiEnabled:   imgui,
		CameraPosition: mgl32.Vec3{vals[4], vals[5], vals[6]},
		CameraFront:    mgl32.Vec3{vals[7], vals[8], vals[9]},
		HeightScale:    DefaultHeightScale,
	}
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

func parseLegacyBool(s string) (bool, error) {
	switch s {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	}
	return false, fmt.Errorf("invalid bool %q", s)
}

// Validate rejects values that would leave the camera unusable.
func (s ProgramState) Validate() error {
	for _, v := range []mgl32.Vec3{s.ClearColor, s.CameraPosition, s.CameraFront} {
		for _, c := range v {
			if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
				return fmt.Errorf("%w: non-finite value", ErrMalformed)
			}
		}
	}
	if s.CameraFront.Len() == 0 {
		return fmt.Errorf("%w: zero camera front", ErrMalformed)
	}
	if s.HeightScale < 0 || s.HeightScale > 1 || math.IsNaN(float64(s.HeightScale)) {
		return fmt.Errorf("%w: height scale %v out of [0,1]", ErrMalformed, s.HeightScale)
	}
	return nil
}

// Encode renders s as the current versioned document.
func (s ProgramState) Encode() ([]byte, error) {
	doc := document{
		Version:      CurrentVersion,
		ClearColor:   s.ClearColor,
		ImGuiEnabled: s.ImGuiEnabled,
	}
	doc.Camera.Position = s.CameraPosition
	doc.Camera.Front = s.CameraFront
	hs := s.HeightScale
	doc.HeightScale = &hs

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("state: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes s to path, creating the parent directory if needed.
func (s ProgramState) Save(path string) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("state: mkdir %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("state: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("state: rename %s: %w", path, err)
	}
	return nil
}
