//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	dwmwaUseImmersiveDarkMode = 20
	dwmwaBorderColor          = 34
	dwmwaCaptionColor         = 35
)

func setWindowAttribute(window *glfw.Window, attr uintptr, value uint32) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}
	procDwmSetWindowAttribute.Call(
		uintptr(unsafe.Pointer(hwnd)),
		attr,
		uintptr(unsafe.Pointer(&value)),
		unsafe.Sizeof(value),
	)
}

// matchTitleBar tints the caption and border with the scene's clear color.
func matchTitleBar(window *glfw.Window, clear mgl32.Vec3) {
	setWindowAttribute(window, dwmwaUseImmersiveDarkMode, 1)
	bgr := colorref(clear)
	setWindowAttribute(window, dwmwaBorderColor, bgr)
	setWindowAttribute(window, dwmwaCaptionColor, bgr)
}
