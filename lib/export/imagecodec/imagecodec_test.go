package imagecodec

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	return img
}

func TestToPNG(t *testing.T) {
	codec := New()

	t.Run("16-bit png becomes 8-bit", func(t *testing.T) {
		img := image.NewRGBA64(image.Rect(0, 0, 3, 3))
		img.Set(2, 2, color.RGBA64{R: 0xffff, A: 0xffff})
		buf := new(bytes.Buffer)
		require.Nil(t, png.Encode(buf, img))

		out, err := codec.ToPNG(buf.Bytes())
		require.Nil(t, err)
		decoded, err := png.Decode(bytes.NewReader(out))
		require.Nil(t, err)
		_, ok := decoded.(*image.NRGBA)
		require.True(t, ok)
		require.Equal(t, 3, decoded.Bounds().Dx())
	})
	t.Run("jpeg and bmp are converted", func(t *testing.T) {
		jpg := new(bytes.Buffer)
		require.Nil(t, jpeg.Encode(jpg, sample(), nil))
		bm := new(bytes.Buffer)
		require.Nil(t, bmp.Encode(bm, sample()))

		for _, body := range [][]byte{jpg.Bytes(), bm.Bytes()} {
			out, err := codec.ToPNG(body)
			require.Nil(t, err)
			_, format, err := image.Decode(bytes.NewReader(out))
			require.Nil(t, err)
			require.Equal(t, "png", format)
		}
	})
	t.Run("garbage is an error", func(t *testing.T) {
		_, err := codec.ToPNG([]byte("not an image"))
		require.NotNil(t, err)
		_, err = codec.ToPNG(nil)
		require.NotNil(t, err)
	})
}
