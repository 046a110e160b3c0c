//go:build !windows

package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// matchTitleBar is a no-op; only the Windows compositor exposes caption colors.
func matchTitleBar(window *glfw.Window, clear mgl32.Vec3) {}
