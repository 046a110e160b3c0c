package renderer

import (
	"sort"

	"StreetScene/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// UniformCache caches uniform locations to avoid repeated gl.GetUniformLocation
// calls. Names that do not resolve are reported once and then skipped.
type UniformCache struct {
	locations map[string]int32
	missing   map[string]struct{}
	program   uint32
	label     string
	lookup    func(program uint32, name string) int32
}

// NewUniformCache creates a new uniform cache for a shader program
func NewUniformCache(program uint32, label string) *UniformCache {
	return &UniformCache{
		locations: make(map[string]int32),
		missing:   make(map[string]struct{}),
		program:   program,
		label:     label,
		lookup:    glUniformLocation,
	}
}

func glUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// GetLocation returns the cached uniform location or fetches and caches it
func (uc *UniformCache) GetLocation(name string) int32 {
	if loc, exists := uc.locations[name]; exists {
		return loc
	}

	loc := uc.lookup(uc.program, name)
	uc.locations[name] = loc
	if loc == -1 {
		uc.missing[name] = struct{}{}
		logger.Log.Warn("Uniform not found in program",
			zap.String("shader", uc.label),
			zap.Uint32("program", uc.program),
			zap.String("uniform", name))
	}
	return loc
}

func (uc *UniformCache) SetFloat(name string, value float32) {
	if loc := uc.GetLocation(name); loc != -1 {
		gl.Uniform1f(loc, value)
	}
}

func (uc *UniformCache) SetVec3(name string, x, y, z float32) {
	if loc := uc.GetLocation(name); loc != -1 {
		gl.Uniform3f(loc, x, y, z)
	}
}

func (uc *UniformCache) SetInt(name string, value int32) {
	if loc := uc.GetLocation(name); loc != -1 {
		gl.Uniform1i(loc, value)
	}
}

func (uc *UniformCache) SetMat4(name string, value mgl32.Mat4) {
	if loc := uc.GetLocation(name); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &value[0])
	}
}

// Missing lists the names that did not resolve, sorted.
func (uc *UniformCache) Missing() []string {
	names := make([]string, 0, len(uc.missing))
	for n := range uc.missing {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clear clears the cache (call when shader program changes)
func (uc *UniformCache) Clear() {
	uc.locations = make(map[string]int32)
	uc.missing = make(map[string]struct{})
}
