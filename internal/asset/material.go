package asset

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "github.com/ftrvxmtrx/tga"
	xdraw "golang.org/x/image/draw"

	"github.com/Faultbox/scenelog/pkg/summary"
)

// TextureChannels are the texture maps discovered by filename
// convention in a model directory.
var TextureChannels = []string{"albedo", "normal", "ao", "metallic", "roughness"}

// DefaultShader is the shading model name assigned to loaded materials.
const DefaultShader = "defaultLit"

// LoadMaterial assembles a material from <modelDir>/<channel>.png (or
// .tga) for each known channel. Missing channel files are skipped, not
// an error. base_metallic is set to 1.0 when a metallic map is present.
// Textures larger than maxTexSize on either side are downsampled;
// maxTexSize <= 0 disables the cap.
func LoadMaterial(modelDir string, maxTexSize int) (*summary.Material, error) {
	mat := summary.NewMaterial(DefaultShader)
	for _, ch := range TextureChannels {
		img, err := loadChannel(modelDir, ch)
		if err != nil {
			return nil, err
		}
		if img == nil {
			continue
		}
		if maxTexSize > 0 {
			img = capSize(img, maxTexSize)
		}
		mat.TextureMaps[ch] = img
	}
	if _, ok := mat.TextureMaps["metallic"]; ok {
		mat.ScalarProperties["base_metallic"] = 1.0
	}
	return mat, nil
}

// loadChannel returns nil without error when no file exists for the
// channel.
func loadChannel(modelDir, channel string) (*image.NRGBA, error) {
	for _, ext := range []string{".png", ".tga"} {
		path := filepath.Join(modelDir, channel+ext)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("asset: open texture %s: %w", path, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("asset: decode texture %s: %w", path, err)
		}
		return toNRGBA(img), nil
	}
	return nil, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// capSize downsamples img so that neither side exceeds limit, keeping
// the aspect ratio.
func capSize(img *image.NRGBA, limit int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}
	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, b, xdraw.Over, nil)
	return out
}
