package engine

import (
	"fmt"
	"runtime"
	"time"

	"StreetScene/internal/config"
	"StreetScene/internal/logger"
	"StreetScene/internal/overlay"
	"StreetScene/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// App owns the window and runs the render loop for one Session.
type App struct {
	cfg       config.Config
	session   *Session
	loadModel renderer.ModelLoader

	window  *glfw.Window
	scene   *renderer.SceneRenderer
	overlay *overlay.Overlay

	screenshotRequested bool
	titleColor          mgl32.Vec3
	titleSet            bool
}

func NewApp(cfg config.Config, session *Session, loadModel renderer.ModelLoader) *App {
	session.NormalMapping = cfg.NormalMapping
	return &App{cfg: cfg, session: session, loadModel: loadModel}
}

// Run opens the window, draws until it is closed and saves the session.
// It must be called from the main goroutine.
func (app *App) Run() error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(app.cfg.Width, app.cfg.Height, app.cfg.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("could not create glfw window: %w", err)
	}
	app.window = window
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(app.cfg.SwapInterval())

	scene, err := renderer.NewSceneRenderer(renderer.Options{
		ResolvePath:    app.cfg.ResourcePath,
		LoadModel:      app.loadModel,
		MaxTextureSize: app.cfg.MaxTextureSize,
	})
	if err != nil {
		return err
	}
	app.scene = scene
	defer app.Cleanup()

	app.overlay, err = overlay.New(window)
	if err != nil {
		// The viewer is usable without its debug panels.
		logger.Log.Error("Debug overlay unavailable", zap.Error(err))
	}

	app.installCallbacks()
	app.updateCursorMode()
	app.updateTitleBar()

	app.loop()

	if err := app.session.Snapshot().Save(app.cfg.StateFile); err != nil {
		logger.Log.Error("Failed to save program state", zap.String("path", app.cfg.StateFile), zap.Error(err))
	} else {
		logger.Log.Info("Program state saved", zap.String("path", app.cfg.StateFile))
	}
	return nil
}

func (app *App) loop() {
	lastTime := glfw.GetTime()
	for !app.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := float32(currentTime - lastTime)
		lastTime = currentTime

		app.processInput(deltaTime)

		width, height := app.window.GetFramebufferSize()
		app.scene.RenderFrame(app.session.Frame(width, height))

		if app.session.OverlayOn && app.overlay != nil {
			app.overlay.Frame(app.drawPanels)
		}
		if app.screenshotRequested {
			app.screenshotRequested = false
			app.saveScreenshot(width, height)
		}

		app.window.SwapBuffers()
		glfw.PollEvents()
	}
}

// processInput samples held keys. Keyboard movement pauses while an overlay
// widget has keyboard focus.
func (app *App) processInput(deltaTime float32) {
	if app.overlayWantsKeyboard() {
		return
	}
	down := func(key glfw.Key) bool { return app.window.GetKey(key) == glfw.Press }
	app.session.Advance(deltaTime, Input{
		Forward:     down(glfw.KeyW),
		Backward:    down(glfw.KeyS),
		Left:        down(glfw.KeyA),
		Right:       down(glfw.KeyD),
		Boost:       down(glfw.KeyLeftShift) || down(glfw.KeyRightShift),
		RaiseHeight: down(glfw.KeyE),
		LowerHeight: down(glfw.KeyQ),
	})
}

func (app *App) drawPanels() {
	scene := app.session.sceneControls(app.scene.MissingUniforms())
	if overlay.SceneWindow(&scene) {
		app.session.applySceneControls(scene)
		app.updateTitleBar()
	}
	cam := app.session.cameraControls()
	cam.Hover = app.hoverText()
	if overlay.CameraWindow(&cam) {
		app.session.applyCameraControls(cam)
	}
}

// hoverText picks the scene under the cursor for the camera panel.
func (app *App) hoverText() string {
	if app.overlay.Platform.WantsMouse() {
		return ""
	}
	x, y := app.window.GetCursorPos()
	w, h := app.window.GetSize()
	ray := renderer.ScreenToRay(app.session.Camera, float32(x), float32(y), w, h)
	hit, ok := app.scene.Pick(ray)
	if !ok {
		return ""
	}
	return overlay.HoverText(hit.Name, hit.Point)
}

func (app *App) installCallbacks() {
	app.window.SetKeyCallback(app.keyCallback)
	app.window.SetCharCallback(app.charCallback)
	app.window.SetCursorPosCallback(app.cursorCallback)
	app.window.SetMouseButtonCallback(app.mouseButtonCallback)
	app.window.SetScrollCallback(app.scrollCallback)
}

func (app *App) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if app.session.OverlayOn && app.overlay != nil {
		app.overlay.Platform.Key(key, action)
	}
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyF1:
		app.session.ToggleOverlay()
		app.updateCursorMode()
	case glfw.KeyF12:
		app.screenshotRequested = true
	case glfw.KeyN:
		if !app.overlayWantsKeyboard() {
			app.session.ToggleTimeOfDay()
			logger.Log.Debug("Time of day", zap.Stringer("now", app.session.TimeOfDay))
		}
	}
}

func (app *App) charCallback(w *glfw.Window, char rune) {
	if app.session.OverlayOn && app.overlay != nil {
		app.overlay.Platform.Char(char)
	}
}

func (app *App) cursorCallback(w *glfw.Window, xpos, ypos float64) {
	app.session.MouseMoved(xpos, ypos)
}

func (app *App) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if app.session.OverlayOn && app.overlay != nil {
		app.overlay.Platform.MouseButton(button, action)
	}
}

func (app *App) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	if app.session.OverlayOn && app.overlay != nil {
		app.overlay.Platform.Scroll(xoff, yoff)
		if app.overlay.Platform.WantsMouse() {
			return
		}
	}
	app.session.Scrolled(yoff)
}

func (app *App) overlayWantsKeyboard() bool {
	return app.session.OverlayOn && app.overlay != nil && app.overlay.Platform.WantsKeyboard()
}

// updateCursorMode captures the cursor for mouse look unless the overlay is up.
func (app *App) updateCursorMode() {
	if app.session.OverlayOn {
		app.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	} else {
		app.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	}
}

func (app *App) updateTitleBar() {
	if app.titleSet && app.titleColor == app.session.ClearColor {
		return
	}
	app.titleColor, app.titleSet = app.session.ClearColor, true
	matchTitleBar(app.window, app.session.ClearColor)
}

func (app *App) saveScreenshot(width, height int) {
	path, err := SaveScreenshot(app.cfg.ScreenshotDir, CaptureFramebuffer(width, height), time.Now())
	if err != nil {
		logger.Log.Error("Screenshot failed", zap.Error(err))
		return
	}
	logger.Log.Info("Screenshot saved", zap.String("path", path))
}

// Cleanup releases the overlay and scene resources. Safe to call twice.
func (app *App) Cleanup() {
	if app.overlay != nil {
		app.overlay.Dispose()
		app.overlay = nil
	}
	if app.scene != nil {
		app.scene.Cleanup()
		app.scene = nil
	}
}
