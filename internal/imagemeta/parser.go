package imagemeta

import (
	"bytes"
	"fmt"
	"image"

	// Header decoders for the formats favicons ship in. Registration is
	// all we need; pixels are never decoded.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Parser incrementally accumulates the leading bytes of an image stream and
// resolves its pixel dimensions as soon as the header can be decoded.
//
// Feed never fails: a prefix too short to decode simply leaves the size
// unresolved, and bytes that will never decode leave it unresolved forever.
// The caller decides when to give up (typically via a byte budget).
type Parser struct {
	buf      []byte
	width    int
	height   int
	format   string
	resolved bool
}

// NewParser creates an empty parser.
func NewParser() *Parser {
	return &Parser{}
}

// Feed appends a chunk of stream bytes and attempts a header decode.
// It returns true once the dimensions are known; further calls are no-ops.
func (p *Parser) Feed(chunk []byte) bool {
	if p.resolved {
		return true
	}
	p.buf = append(p.buf, chunk...)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(p.buf))
	if err != nil {
		// Not decodable yet (truncated header) or not an image at
		// all. Either way the answer is "no size yet".
		return false
	}

	p.width = cfg.Width
	p.height = cfg.Height
	p.format = format
	p.resolved = true
	return true
}

// Size returns the resolved dimensions. ok is false until a Feed call has
// decoded the header.
func (p *Parser) Size() (width, height int, ok bool) {
	return p.width, p.height, p.resolved
}

// Format returns the detected image format name ("png", "ico", ...), or ""
// while unresolved.
func (p *Parser) Format() string {
	return p.format
}

// BytesFed returns how many bytes have been accumulated so far.
func (p *Parser) BytesFed() int {
	return len(p.buf)
}

// DecodeSize decodes the dimensions of a complete image payload, such as a
// decoded data-URI body.
func DecodeSize(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, format, nil
}
