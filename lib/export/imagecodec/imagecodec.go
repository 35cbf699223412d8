package imagecodec

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Codec normalises uploaded signature images into 8-bit non interlaced PNG,
// the only PNG flavour every document writer accepts.
type Codec interface {
	ToPNG(body []byte) ([]byte, error)
}

func New() Codec {
	return codec{}
}

type codec struct{}

func (c codec) ToPNG(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, errors.New("empty image")
	}
	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("empty image")
	}
	normalized := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(normalized, normalized.Bounds(), img, bounds.Min, draw.Src)
	buf := new(bytes.Buffer)
	if err = png.Encode(buf, normalized); err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s as png", format)
	}
	return buf.Bytes(), nil
}
