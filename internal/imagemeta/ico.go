package imagemeta

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
)

// ICO container support.
//
// An ICO file starts with a 6-byte ICONDIR (reserved=0, type=1, count)
// followed by count 16-byte ICONDIRENTRY records whose first two bytes are
// the image width and height, where 0 encodes 256. The config decoder
// reports the largest entry, which is what a caller ranking icons by area
// wants. Everything it needs sits in the first 6+16*count bytes, so it
// works on truncated streams well within any probing budget.

func init() {
	image.RegisterFormat("ico", "\x00\x00\x01\x00", decodeICO, decodeICOConfig)
}

var (
	errICONotICO   = errors.New("imagemeta: not an ico file")
	errICOEmpty    = errors.New("imagemeta: ico has no directory entries")
	errICONoPixels = errors.New("imagemeta: ico pixel decoding is not supported")
)

// decodeICO exists only to satisfy the registry signature. Dimension
// probing never decodes pixels.
func decodeICO(io.Reader) (image.Image, error) {
	return nil, errICONoPixels
}

// decodeICOConfig reads the icon directory and returns the dimensions of
// the largest contained image.
func decodeICOConfig(r io.Reader) (image.Config, error) {
	var header [6]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return image.Config{}, err
	}
	if binary.LittleEndian.Uint16(header[0:2]) != 0 || binary.LittleEndian.Uint16(header[2:4]) != 1 {
		return image.Config{}, errICONotICO
	}
	count := int(binary.LittleEndian.Uint16(header[4:6]))
	if count == 0 {
		return image.Config{}, errICOEmpty
	}

	best := image.Config{ColorModel: color.RGBAModel}
	for i := 0; i < count; i++ {
		var entry [16]byte
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return image.Config{}, err
		}
		width := int(entry[0])
		height := int(entry[1])
		if width == 0 {
			width = 256
		}
		if height == 0 {
			height = 256
		}
		if width*height > best.Width*best.Height {
			best.Width = width
			best.Height = height
		}
	}
	return best, nil
}
