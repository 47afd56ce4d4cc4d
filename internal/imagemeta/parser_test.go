package imagemeta

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

// encodeImage builds a real image of the given format at test runtime.
func encodeImage(t *testing.T, format string, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		t.Fatalf("unsupported test format %q", format)
	}
	if err != nil {
		t.Fatalf("failed to encode %s: %v", format, err)
	}
	return buf.Bytes()
}

// TestParserFeed tests incremental header resolution.
func TestParserFeed(t *testing.T) {
	t.Parallel()

	t.Run("resolves png from header prefix only", func(t *testing.T) {
		t.Parallel()

		data := encodeImage(t, "png", 64, 48)
		parser := NewParser()

		// The PNG IHDR sits inside the first 33 bytes; the parser
		// must resolve long before the full payload.
		if !parser.Feed(data[:64]) {
			t.Fatal("expected resolution from 64-byte prefix")
		}
		w, h, ok := parser.Size()
		if !ok || w != 64 || h != 48 {
			t.Errorf("got %dx%d ok=%v, expected 64x48", w, h, ok)
		}
		if parser.Format() != "png" {
			t.Errorf("got format %q, expected png", parser.Format())
		}
	})

	t.Run("accumulates across chunks", func(t *testing.T) {
		t.Parallel()

		data := encodeImage(t, "png", 32, 32)
		parser := NewParser()

		if parser.Feed(data[:8]) {
			t.Error("eight bytes cannot resolve a png header")
		}
		if _, _, ok := parser.Size(); ok {
			t.Error("size must stay unresolved")
		}
		if !parser.Feed(data[8:64]) {
			t.Error("expected resolution after the header arrived")
		}
		w, h, _ := parser.Size()
		if w != 32 || h != 32 {
			t.Errorf("got %dx%d, expected 32x32", w, h)
		}
	})

	t.Run("further feeds after resolution are no-ops", func(t *testing.T) {
		t.Parallel()

		data := encodeImage(t, "gif", 10, 20)
		parser := NewParser()
		if !parser.Feed(data) {
			t.Fatal("expected resolution")
		}
		fed := parser.BytesFed()
		if !parser.Feed([]byte{0xDE, 0xAD}) {
			t.Error("resolved parser must keep reporting true")
		}
		if parser.BytesFed() != fed {
			t.Error("resolved parser must stop accumulating")
		}
	})

	t.Run("garbage never resolves", func(t *testing.T) {
		t.Parallel()

		parser := NewParser()
		for i := 0; i < 8; i++ {
			if parser.Feed(bytes.Repeat([]byte{0xFF}, 512)) {
				t.Fatal("garbage must not resolve")
			}
		}
	})

	t.Run("resolves jpeg", func(t *testing.T) {
		t.Parallel()

		data := encodeImage(t, "jpeg", 100, 50)
		parser := NewParser()
		if !parser.Feed(data) {
			t.Fatal("expected resolution from full jpeg")
		}
		w, h, _ := parser.Size()
		if w != 100 || h != 50 {
			t.Errorf("got %dx%d, expected 100x50", w, h)
		}
	})
}

// TestDecodeSize tests whole-payload decoding used for data URIs.
func TestDecodeSize(t *testing.T) {
	t.Parallel()

	t.Run("decodes png payload", func(t *testing.T) {
		t.Parallel()

		w, h, format, err := DecodeSize(encodeImage(t, "png", 1, 1))
		if err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if w != 1 || h != 1 || format != "png" {
			t.Errorf("got %dx%d %q, expected 1x1 png", w, h, format)
		}
	})

	t.Run("rejects non-image payload", func(t *testing.T) {
		t.Parallel()

		if _, _, _, err := DecodeSize([]byte("not an image")); err == nil {
			t.Error("expected error for non-image payload")
		}
	})
}
