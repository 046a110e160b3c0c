package renderer

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"StreetScene/internal/logger"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

const whiteTextureKey = "#white"

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	Failures       int
	ActiveTextures int
}

// TextureManager manages texture loading, caching, and lifecycle.
// All methods that touch GL must run on the render thread.
type TextureManager struct {
	textureCache    map[string]uint32 // path -> OpenGL texture ID
	textureRefCount map[uint32]int    // texture ID -> reference count
	texturePaths    map[uint32]string // texture ID -> path (for debugging)
	maxSize         int
	mu              sync.RWMutex
	stats           TextureStats
}

// NewTextureManager creates a texture manager. Images larger than maxSize on
// either side are downscaled before upload; 0 disables the limit.
func NewTextureManager(maxSize int) *TextureManager {
	return &TextureManager{
		textureCache:    make(map[string]uint32),
		textureRefCount: make(map[uint32]int),
		texturePaths:    make(map[uint32]string),
		maxSize:         maxSize,
	}
}

// Texture loads a 2D texture and returns its handle, or 0 after logging
// when the file cannot be read.
func (tm *TextureManager) Texture(path string) uint32 {
	id, err := tm.LoadTexture(path)
	if err != nil {
		logger.Log.Error("Texture failed to load", zap.String("path", path), zap.Error(err))
		return 0
	}
	return id
}

// LoadTexture loads a texture from file or returns the cached texture ID.
// Automatically increments the reference count.
func (tm *TextureManager) LoadTexture(path string) (uint32, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if id, ok := tm.cached(path); ok {
		return id, nil
	}
	tm.stats.CacheMisses++

	img, err := decodeImageFile(path)
	if err != nil {
		tm.stats.Failures++
		return 0, err
	}
	id := upload2D(fitImage(img, tm.maxSize), hasAlphaChannel(img))
	tm.track(path, id)

	b := img.Bounds()
	logger.Log.Info("Texture loaded and cached",
		zap.String("path", path),
		zap.Uint32("textureID", id),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return id, nil
}

// TextureFromImage uploads an in-memory image under name.
func (tm *TextureManager) TextureFromImage(img image.Image, name string) uint32 {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if id, ok := tm.cached(name); ok {
		return id
	}
	tm.stats.CacheMisses++
	id := upload2D(fitImage(img, tm.maxSize), hasAlphaChannel(img))
	tm.track(name, id)

	logger.Log.Info("Texture created from image",
		zap.String("name", name),
		zap.Uint32("textureID", id))
	return id
}

// White returns a 1x1 white texture used when a material has no map.
func (tm *TextureManager) White() uint32 {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[0], img.Pix[1], img.Pix[2], img.Pix[3] = 255, 255, 255, 255
	return tm.TextureFromImage(img, whiteTextureKey)
}

// Cubemap loads six faces (+X, -X, +Y, -Y, +Z, -Z) into one cube texture.
// Faces that fail to load are logged and left empty.
func (tm *TextureManager) Cubemap(faces [6]string) uint32 {
	key := fmt.Sprintf("cubemap:%v", faces)

	tm.mu.Lock()
	defer tm.mu.Unlock()
	if id, ok := tm.cached(key); ok {
		return id
	}
	tm.stats.CacheMisses++

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	loaded := 0
	for i, face := range faces {
		img, err := decodeImageFile(face)
		if err != nil {
			tm.stats.Failures++
			logger.Log.Error("Cubemap face failed to load", zap.String("path", face), zap.Error(err))
			continue
		}
		rgba := fitImage(img, tm.maxSize)
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA,
			int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
		loaded++
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	tm.track(key, id)

	logger.Log.Info("Cubemap loaded",
		zap.String("first", faces[0]),
		zap.Uint32("textureID", id),
		zap.Int("faces", loaded))
	return id
}

// cached bumps the reference count of a known texture. Caller holds mu.
func (tm *TextureManager) cached(key string) (uint32, bool) {
	id, ok := tm.textureCache[key]
	if !ok {
		return 0, false
	}
	tm.textureRefCount[id]++
	tm.stats.CacheHits++
	logger.Log.Debug("Texture cache hit",
		zap.String("path", key),
		zap.Uint32("textureID", id),
		zap.Int("refCount", tm.textureRefCount[id]))
	return id, true
}

// track records a freshly created texture. Caller holds mu.
func (tm *TextureManager) track(key string, id uint32) {
	tm.textureCache[key] = id
	tm.textureRefCount[id] = 1
	tm.texturePaths[id] = key
	tm.stats.TotalTextures++
	tm.stats.ActiveTextures++
}

func upload2D(rgba *image.RGBA, alpha bool) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	wrap := int32(gl.MIRRORED_REPEAT)
	if alpha {
		// repeating would bleed the transparent border into the opposite edge
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	return id
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// hasAlphaChannel reports whether the source carried a fourth channel.
// The PNG decoder returns NRGBA only for files with alpha; opaque RGB files
// come back as RGBA, so premultiplied and palette images are judged by their
// pixels instead.
func hasAlphaChannel(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64:
		return true
	case *image.RGBA, *image.RGBA64, *image.Alpha, *image.Alpha16, *image.Paletted:
		if o, ok := img.(interface{ Opaque() bool }); ok {
			return !o.Opaque()
		}
		return true
	}
	return false
}

// fitImage converts img to tightly packed RGBA with its origin at (0,0),
// downscaling it to fit within maxSize when needed.
func fitImage(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == w*4 {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// ReleaseTexture decrements reference count and frees texture if count reaches 0
func (tm *TextureManager) ReleaseTexture(textureID uint32) {
	if textureID == 0 {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, exists := tm.textureRefCount[textureID]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture",
			zap.Uint32("textureID", textureID))
		return
	}

	refCount--
	tm.textureRefCount[textureID] = refCount
	if refCount > 0 {
		return
	}

	gl.DeleteTextures(1, &textureID)
	path := tm.texturePaths[textureID]
	delete(tm.textureCache, path)
	delete(tm.textureRefCount, textureID)
	delete(tm.texturePaths, textureID)
	tm.stats.ActiveTextures--

	logger.Log.Debug("Texture freed",
		zap.Uint32("textureID", textureID),
		zap.String("path", path))
}

// GetStats returns current texture manager statistics
func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// LogStats logs current texture statistics
func (tm *TextureManager) LogStats() {
	stats := tm.GetStats()
	hitRate := 0.0
	if lookups := stats.CacheHits + stats.CacheMisses; lookups > 0 {
		hitRate = float64(stats.CacheHits) / float64(lookups)
	}
	logger.Log.Info("Texture Manager Stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses),
		zap.Int("failures", stats.Failures),
		zap.Float64("hitRate", hitRate))
}

// Clear releases all textures.
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for textureID := range tm.textureRefCount {
		id := textureID
		gl.DeleteTextures(1, &id)
	}

	tm.textureCache = make(map[string]uint32)
	tm.textureRefCount = make(map[uint32]int)
	tm.texturePaths = make(map[uint32]string)
	tm.stats.ActiveTextures = 0

	logger.Log.Info("Texture manager cleared")
}
