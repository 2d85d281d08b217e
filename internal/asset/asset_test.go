package asset

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

const cubeOBJ = `# simple quad cube face test
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOBJQuad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "quad.obj", cubeOBJ)
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ() error: %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("vertex count = %d, want 4", m.VertexCount())
	}
	// Quad triangulated as a fan.
	if m.TriangleCount() != 2 {
		t.Errorf("triangle count = %d, want 2", m.TriangleCount())
	}
	if !m.HasNormals() {
		t.Error("normals missing")
	}
	if !m.HasUVs() {
		t.Error("UVs missing")
	}
}

func TestLoadOBJFaceForms(t *testing.T) {
	cases := []struct {
		name string
		face string
	}{
		{"position only", "f 1 2 3"},
		{"position and uv", "f 1/1 2/2 3/3"},
		{"position and normal", "f 1//1 2//1 3//1"},
		{"full", "f 1/1/1 2/2/1 3/3/1"},
		{"negative indices", "f -4 -3 -2"},
	}
	body := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 1 1
`
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "m.obj", body+c.face+"\n")
			m, err := LoadOBJ(path)
			if err != nil {
				t.Fatalf("LoadOBJ() error: %v", err)
			}
			if m.TriangleCount() != 1 {
				t.Errorf("triangle count = %d, want 1", m.TriangleCount())
			}
		})
	}
}

func TestLoadOBJMissing(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "nope.obj"))
	if !errors.Is(err, ErrMissingAsset) {
		t.Fatalf("LoadOBJ(missing) error = %v, want ErrMissingAsset", err)
	}
}

func TestLoadOBJBadIndex(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.obj", "v 0 0 0\nf 1 2 3\n")
	if _, err := LoadOBJ(path); err == nil {
		t.Fatal("LoadOBJ(out-of-range face) succeeded, want error")
	}
}

func writePNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMaterialSkipsMissingChannels(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "albedo.png", 8, 8)
	writePNG(t, dir, "metallic.png", 8, 8)

	mat, err := LoadMaterial(dir, 0)
	if err != nil {
		t.Fatalf("LoadMaterial() error: %v", err)
	}
	if mat.Name != DefaultShader {
		t.Errorf("material name = %q, want %q", mat.Name, DefaultShader)
	}
	if _, ok := mat.TextureMaps["albedo"]; !ok {
		t.Error("albedo map missing")
	}
	if _, ok := mat.TextureMaps["metallic"]; !ok {
		t.Error("metallic map missing")
	}
	if _, ok := mat.TextureMaps["normal"]; ok {
		t.Error("normal map present despite no normal.png")
	}
	if len(mat.TextureMaps) != 2 {
		t.Errorf("texture map count = %d, want 2", len(mat.TextureMaps))
	}
	if got := mat.ScalarProperties["base_metallic"]; got != 1.0 {
		t.Errorf("base_metallic = %v, want 1.0", got)
	}
}

func TestLoadMaterialNoMetallic(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "albedo.png", 8, 8)

	mat, err := LoadMaterial(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mat.ScalarProperties["base_metallic"]; ok {
		t.Error("base_metallic set without a metallic map")
	}
}

func TestLoadMaterialTextureCap(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "albedo.png", 64, 32)

	mat, err := LoadMaterial(dir, 16)
	if err != nil {
		t.Fatal(err)
	}
	b := mat.TextureMaps["albedo"].Bounds()
	if b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("capped albedo = %dx%d, want 16x8", b.Dx(), b.Dy())
	}
}
