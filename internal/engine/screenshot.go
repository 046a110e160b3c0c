package engine

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// CaptureFramebuffer reads the back buffer into an image with the top row
// first. Call it after rendering and before SwapBuffers.
func CaptureFramebuffer(width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		return nil
	}
	pixels := make([]uint8, width*height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	return flipRows(pixels, width, height)
}

// flipRows turns bottom-up GL rows into a top-down image.
func flipRows(pixels []uint8, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return img
}

// screenshotName is the file name for a capture taken at t.
func screenshotName(t time.Time) string {
	return fmt.Sprintf("street-%s.webp", t.Format("20060102-150405.000"))
}

// SaveScreenshot encodes img as lossless WebP into dir and returns the path.
func SaveScreenshot(dir string, img *image.RGBA, now time.Time) (string, error) {
	if img == nil {
		return "", fmt.Errorf("screenshot: empty framebuffer")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	path := filepath.Join(dir, screenshotName(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("screenshot: webp encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}
