package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"StreetScene/internal/config"
	"StreetScene/internal/engine"
	"StreetScene/internal/loader"
	"StreetScene/internal/logger"
	"StreetScene/internal/renderer"
	"StreetScene/internal/state"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"
)

// legacyStateFile is where the positional state file used to live.
const legacyStateFile = "program_state.txt"

func init() {
	// GLFW and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	resourceDir := flag.String("resources", "", "Resource directory (default: resources)")
	stateFile := flag.String("state", "", "Program state file (default: <resources>/program_state.json)")
	screenshotDir := flag.String("screenshots", "", "Screenshot directory (default: screenshots)")
	meshCache := flag.String("mesh-cache", "", `Parsed mesh cache directory, "off" to disable`)
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")
	width := flag.Int("width", 0, "Window width (default: 800)")
	height := flag.Int("height", 0, "Window height (default: 600)")
	normalMapping := flag.Bool("normal-mapping", false, "Draw the parallax-mapped ground")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Resolve(config.Flags{
		ResourceDir:   *resourceDir,
		StateFile:     *stateFile,
		ScreenshotDir: *screenshotDir,
		MeshCacheDir:  *meshCache,
		LogLevel:      *logLevel,
		Width:         *width,
		Height:        *height,
		NormalMapping: *normalMapping,
	})

	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log.Error("Street scene stopped", zap.Error(err))
		dialog.Message("%v", err).Title("Street scene").Error()
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	st, path, err := state.LoadFirst(cfg.StateFile, cfg.ResourcePath(legacyStateFile))
	if err != nil {
		// A damaged state file only costs the saved camera; it is rewritten on exit.
		logger.Log.Warn("Ignoring program state", zap.String("path", path), zap.Error(err))
	} else if path != "" {
		logger.Log.Info("Program state loaded", zap.String("path", path))
	}

	var load renderer.ModelLoader = loader.Load
	if cfg.MeshCacheEnabled() {
		load = loader.Loader{CacheDir: cfg.MeshCacheDir}.Load
	}

	app := engine.NewApp(cfg, engine.NewSession(st, cfg.CameraSpeed), load)
	return app.Run()
}
