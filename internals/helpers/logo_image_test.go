package helper

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	return img
}

func TestLogoPNG_ResizesWebP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, webp.Encode(&buf, solidImage(320, 160), &webp.Options{Lossless: true}))

	out, err := LogoPNG(buf.Bytes(), "logo.webp", ReceiptLogoWidth)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestLogoPNG_SmallImageKeepsSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(40, 20)))

	out, err := LogoPNG(buf.Bytes(), "logo.png", ReceiptLogoWidth)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestDecodeImage_Rejects(t *testing.T) {
	_, err := DecodeImage(nil, "x.png")
	assert.Error(t, err)

	_, err = DecodeImage([]byte("plain text, not an image"), "notes.txt")
	assert.Error(t, err)
}

func TestLoadLogoFile(t *testing.T) {
	out, err := LoadLogoFile("", ReceiptLogoWidth)
	require.NoError(t, err)
	assert.Nil(t, out)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(160, 160)))
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	out, err = LoadLogoFile(path, ReceiptLogoWidth)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = LoadLogoFile(filepath.Join(t.TempDir(), "missing.png"), ReceiptLogoWidth)
	assert.Error(t, err)
}
