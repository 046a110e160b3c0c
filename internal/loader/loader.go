package loader

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"StreetScene/internal/logger"
	"StreetScene/internal/renderer"

	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("loader: unsupported model format")

// Load decodes a model file, choosing the decoder by extension.
func Load(path string) (*renderer.Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Loader decodes models and keeps a binary copy of every parsed mesh in
// CacheDir. A cache entry is keyed by the path, size and modification time of
// the source and of the material libraries an OBJ references, so editing
// either invalidates it. External glTF buffers and images are not tracked.
// An empty CacheDir disables caching.
type Loader struct {
	CacheDir string
}

// Load returns the cached mesh when one matches path, and otherwise decodes
// the file and refreshes the cache. Cache problems are logged, never fatal.
func (l Loader) Load(path string) (*renderer.Model, error) {
	if l.CacheDir == "" {
		return Load(path)
	}
	key, err := cacheKey(path)
	if err != nil {
		return nil, err
	}
	cachePath := filepath.Join(l.CacheDir, key+".mesh")

	if data, err := os.ReadFile(cachePath); err == nil {
		model, err := renderer.DecodeMeshBinary(data)
		if err == nil {
			model.SourcePath = path
			logger.Log.Debug("Mesh cache hit", zap.String("path", path), zap.String("cache", cachePath))
			return model, nil
		}
		logger.Log.Warn("Discarding unreadable mesh cache entry", zap.String("cache", cachePath), zap.Error(err))
	}

	start := time.Now()
	model, err := Load(path)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Model parsed",
		zap.String("path", path),
		zap.Int("vertices", model.VertexCount()),
		zap.Duration("took", time.Since(start)))

	if err := writeCache(cachePath, model); err != nil {
		if errors.Is(err, renderer.ErrNotCacheable) {
			logger.Log.Debug("Model not cached", zap.String("path", path), zap.Error(err))
		} else {
			logger.Log.Warn("Mesh cache write failed", zap.String("cache", cachePath), zap.Error(err))
		}
	}
	return model, nil
}

func cacheKey(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	files := []string{path}
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		libs, err := MaterialLibraries(path)
		if err != nil {
			return "", err
		}
		files = append(files, libs...)
	}

	h := fnv.New64a()
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		if info, err := os.Stat(f); err == nil {
			fmt.Fprintf(h, "%s|%d|%d\n", abs, info.Size(), info.ModTime().UnixNano())
		} else {
			fmt.Fprintf(h, "%s|missing\n", abs)
		}
	}
	return fmt.Sprintf("%s-%016x", strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), h.Sum64()), nil
}

func writeCache(cachePath string, model *renderer.Model) error {
	data, err := renderer.EncodeMeshBinary(model)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return err
	}
	tmp := cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, cachePath)
}
