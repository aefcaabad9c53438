package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(w-1, h-1, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestImportedTextureDecodeData(t *testing.T) {
	tex := &ImportedTexture{Data: encodePNG(t, 4, 2)}
	staging, err := tex.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if staging.Width != 4 || staging.Height != 2 {
		t.Fatalf("size = %dx%d, want 4x2", staging.Width, staging.Height)
	}
	if err := staging.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if staging.Pixels[0] != 255 || staging.Pixels[3] != 255 {
		t.Errorf("first pixel = %v, want opaque red", staging.Pixels[:4])
	}
	last := staging.Pixels[len(staging.Pixels)-4:]
	if last[2] != 255 {
		t.Errorf("last pixel = %v, want opaque blue", last)
	}
}

func TestImportedTextureDecodePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	if err := os.WriteFile(path, encodePNG(t, 3, 3), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	staging, err := (&ImportedTexture{Path: path}).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(staging.Pixels) != 3*3*4 {
		t.Errorf("pixels = %d bytes, want %d", len(staging.Pixels), 3*3*4)
	}
}

func TestImportedTextureDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		tex  *ImportedTexture
	}{
		{"nil", nil},
		{"empty", &ImportedTexture{}},
		{"missing file", &ImportedTexture{Path: filepath.Join(t.TempDir(), "nope.jpg")}},
		{"garbage", &ImportedTexture{Data: []byte("not an image")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.tex.Decode(); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestTextureStagingValidate(t *testing.T) {
	if err := (TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 15)}).Validate(); err == nil {
		t.Errorf("short pixel buffer should fail")
	}
	if err := (TextureStagingData{}).Validate(); err == nil {
		t.Errorf("zero size should fail")
	}
}
