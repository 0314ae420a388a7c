package media

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Size is a named crop.
type Size struct {
	Name   string
	Width  int
	Height int // 0 keeps the aspect ratio
}

// Sizes generated for every uploaded image. The three ratio crops are the
// ones search engines ask for in recipe structured data.
var Sizes = []Size{
	{Name: "thumbnail", Width: 200, Height: 0},
	{Name: "1x1", Width: 1200, Height: 1200},
	{Name: "4x3", Width: 1200, Height: 900},
	{Name: "16x9", Width: 1200, Height: 675},
}

// SchemaSizes are the crops listed in the recipe's image property.
var SchemaSizes = []string{"1x1", "4x3", "16x9"}

// Decode reads an image honouring EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Resize produces one size. Images smaller than the target are not upscaled
// for the aspect-only size.
func Resize(img image.Image, s Size) image.Image {
	if s.Height == 0 {
		if img.Bounds().Dx() <= s.Width {
			return img
		}
		return imaging.Resize(img, s.Width, 0, imaging.Lanczos)
	}
	return imaging.Fill(img, s.Width, s.Height, imaging.Center, imaging.Lanczos)
}

// GenerateSizes writes every size next to base (a file path without
// extension) as JPEG and returns size name -> file name.
func GenerateSizes(img image.Image, dir, base string) (map[string]string, error) {
	out := make(map[string]string, len(Sizes))
	for _, s := range Sizes {
		name := fmt.Sprintf("%s-%s.jpg", strings.TrimSuffix(base, filepath.Ext(base)), s.Name)
		if err := imaging.Save(Resize(img, s), filepath.Join(dir, name), imaging.JPEGQuality(85)); err != nil {
			return nil, fmt.Errorf("save %s: %w", s.Name, err)
		}
		out[s.Name] = name
	}
	return out, nil
}
