package enrich

import (
	"crypto/sha256"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// synthesizeArtwork renders a deterministic placeholder tile for a
// channel: a solid color derived from a hash of its name, with the
// name's initials drawn on top. When artwork generation is enabled,
// every channel gets one of these per configured aspect ratio, whether
// or not its source already supplied a logo. The path is content-addressed by name+ratio so re-runs
// reuse the same file instead of rewriting it (adapted from the
// removed cache/path.go sanitizeID + stable-path-from-id pattern).
func synthesizeArtwork(dir, name string, ratios []string) (map[string]string, error) {
	if len(ratios) == 0 {
		ratios = []string{"1x1"}
	}
	paths := make(map[string]string, len(ratios))
	bg := colorFor(name)
	initials := initialsOf(name)

	for _, ratio := range ratios {
		w, h := parseRatio(ratio)
		path := artworkPath(dir, name, ratio)
		if _, err := os.Stat(path); err == nil {
			paths[ratio] = path
			continue
		}
		img := renderTile(w, h, bg, initials)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		paths[ratio] = path
	}
	return paths, nil
}

func artworkPath(dir, name, ratio string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(name))))
	id := fmt.Sprintf("%x", sum[:8])
	return filepath.Join(dir, ratio, id+".png")
}

func colorFor(name string) color.RGBA {
	sum := sha256.Sum256([]byte(name))
	return color.RGBA{R: sum[0], G: sum[1], B: sum[2], A: 255}
}

func initialsOf(name string) string {
	fields := strings.Fields(name)
	switch {
	case len(fields) == 0:
		return "?"
	case len(fields) == 1:
		if len(fields[0]) >= 2 {
			return strings.ToUpper(fields[0][:2])
		}
		return strings.ToUpper(fields[0])
	default:
		return strings.ToUpper(fields[0][:1] + fields[1][:1])
	}
}

func parseRatio(ratio string) (int, int) {
	parts := strings.SplitN(ratio, "x", 2)
	if len(parts) != 2 {
		return 256, 256
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 256, 256
	}
	const base = 256
	return base, base * h / w
}

func renderTile(w, h int, bg color.RGBA, initials string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	textW := font.MeasureString(face, initials).Ceil()
	x := (w - textW) / 2
	y := h/2 + 5

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(initials)
	return img
}
