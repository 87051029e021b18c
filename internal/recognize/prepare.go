package recognize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// PrepareImage enhances an uploaded photo for recognition and bounds its
// size: grayscale for contrast, mild sharpening, and a fit-resize when
// either edge exceeds maxEdge. The result is cached under cacheDir keyed
// by the source content hash, so re-uploads of the same photo skip the
// work.
func PrepareImage(srcPath, cacheDir string, maxEdge int) (string, error) {
	if maxEdge <= 0 {
		maxEdge = 1600
	}

	b, err := os.ReadFile(srcPath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	sum := sha256.Sum256(b)
	cached := filepath.Join(cacheDir, hex.EncodeToString(sum[:])+".jpg")
	if st, err := os.Stat(cached); err == nil && !st.IsDir() {
		return cached, nil
	}

	src, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 20)
	img = imaging.Sharpen(img, 1.0)
	if bounds := img.Bounds(); bounds.Dx() > maxEdge || bounds.Dy() > maxEdge {
		img = imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("cache dir: %w", err)
	}
	if err := imaging.Save(img, cached, imaging.JPEGQuality(90)); err != nil {
		return "", fmt.Errorf("save prepared image: %w", err)
	}
	return cached, nil
}
