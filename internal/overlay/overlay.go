package overlay

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
)

// Overlay owns the ImGui context and its GLFW and OpenGL backends.
type Overlay struct {
	context  *imgui.Context
	Platform *GLFW
	renderer *OpenGL3
}

// New creates the ImGui context for window. A GL context must be current.
func New(window *glfw.Window) (*Overlay, error) {
	context := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	platform := NewGLFWFromExistingWindow(window, io)
	r, err := NewOpenGL3(io)
	if err != nil {
		context.Destroy()
		return nil, err
	}
	imgui.StyleColorsDark()
	return &Overlay{context: context, Platform: platform, renderer: r}, nil
}

// Frame runs build between NewFrame and Render and draws the result.
func (o *Overlay) Frame(build func()) {
	o.Platform.NewFrame()
	imgui.NewFrame()
	build()
	imgui.Render()
	o.renderer.Render(o.Platform.DisplaySize(), o.Platform.FramebufferSize(), imgui.RenderedDrawData())
}

// Dispose releases GL objects and the context. Safe to call twice.
func (o *Overlay) Dispose() {
	if o.renderer != nil {
		o.renderer.Dispose()
		o.renderer = nil
	}
	if o.context != nil {
		o.context.Destroy()
		o.context = nil
	}
}
