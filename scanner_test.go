package extractfavicon

import (
	"strings"
	"testing"
)

// TestFromHTML tests candidate discovery from markup.
func TestFromHTML(t *testing.T) {
	t.Parallel()

	t.Run("extracts link icon with sizes", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
			<link rel="icon" href="/favicon-32x32.png" sizes="32x32">
		</head></html>`

		favicons, err := FromHTML(strings.NewReader(markup), "https://example.com", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 1 {
			t.Fatalf("expected 1 favicon, got %d", len(favicons))
		}

		want := Favicon{URL: "https://example.com/favicon-32x32.png", Format: "png", Width: 32, Height: 32}
		if favicons[0] != want {
			t.Errorf("got %+v, expected %+v", favicons[0], want)
		}
	})

	t.Run("recognizes all declared link relations", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
			<link rel="icon" href="/a.png">
			<link rel="shortcut icon" href="/b.ico">
			<link rel="apple-touch-icon" href="/c.png">
			<link rel="apple-touch-icon-precomposed" href="/d.png">
			<link rel="mask-icon" href="/e.svg">
		</head></html>`

		favicons, err := FromHTML(strings.NewReader(markup), "https://example.com", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 5 {
			t.Errorf("expected 5 favicons, got %d: %v", len(favicons), favicons)
		}
	})

	t.Run("recognizes msapplication meta tags", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
			<meta name="msapplication-TileImage" content="/tile.png">
			<meta name="msapplication-square150x150logo" content="/square.png">
		</head></html>`

		favicons, err := FromHTML(strings.NewReader(markup), "https://example.com", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 2 {
			t.Fatalf("expected 2 favicons, got %d", len(favicons))
		}

		// Meta tags have no sizes attribute; dimensions come from the
		// filename pattern.
		for _, fav := range favicons {
			if fav.URL == "https://example.com/square.png" {
				if fav.Width != 150 || fav.Height != 150 {
					t.Errorf("got %dx%d, expected 150x150", fav.Width, fav.Height)
				}
			}
		}
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
			<link rel="SHORTCUT ICON" href="/favicon.ico">
			<meta name="MSAPPLICATION-TILEIMAGE" content="/tile.png">
		</head></html>`

		favicons, err := FromHTML(strings.NewReader(markup), "https://example.com", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 2 {
			t.Errorf("expected 2 favicons, got %d", len(favicons))
		}
	})

	t.Run("deduplicates structurally identical candidates", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
			<link rel="icon" href="/favicon.ico">
			<link rel="shortcut icon" href="/favicon.ico">
			<link rel="icon" href="favicon.ico">
		</head></html>`

		favicons, err := FromHTML(strings.NewReader(markup), "https://example.com", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 1 {
			t.Errorf("expected 1 favicon after dedup, got %d: %v", len(favicons), favicons)
		}

		seen := make(map[Favicon]struct{})
		for _, fav := range favicons {
			if _, dup := seen[fav]; dup {
				t.Errorf("duplicate candidate in result: %+v", fav)
			}
			seen[fav] = struct{}{}
		}
	})

	t.Run("skips empty and whitespace-only href", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
			<link rel="icon" href="">
			<link rel="icon" href="   ">
			<meta name="msapplication-TileImage" content="">
		</head></html>`

		favicons, err := FromHTML(strings.NewReader(markup), "https://example.com", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 0 {
			t.Errorf("expected no favicons, got %d", len(favicons))
		}
	})

	t.Run("base href supplies missing root", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
			<base href="https://other.example.org">
			<link rel="icon" href="/favicon.png">
		</head></html>`

		favicons, err := FromHTML(strings.NewReader(markup), "", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 1 {
			t.Fatalf("expected 1 favicon, got %d", len(favicons))
		}
		if favicons[0].URL != "https://other.example.org/favicon.png" {
			t.Errorf("got %q", favicons[0].URL)
		}
	})

	t.Run("explicit root wins over base href", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
			<base href="https://other.example.org">
			<link rel="icon" href="/favicon.png">
		</head></html>`

		favicons, err := FromHTML(strings.NewReader(markup), "https://example.com", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 1 {
			t.Fatalf("expected 1 favicon, got %d", len(favicons))
		}
		if favicons[0].URL != "https://example.com/favicon.png" {
			t.Errorf("got %q", favicons[0].URL)
		}
	})

	t.Run("data URI candidate has unknown size at discovery", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
			<link rel="icon" href="data:image/png;base64,iVBORw0KGgo=">
		</head></html>`

		favicons, err := FromHTML(strings.NewReader(markup), "https://example.com", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 1 {
			t.Fatalf("expected 1 favicon, got %d", len(favicons))
		}

		fav := favicons[0]
		if fav.Format != "png" {
			t.Errorf("got format %q, expected png", fav.Format)
		}
		if fav.Width != 0 || fav.Height != 0 {
			t.Errorf("got %dx%d, expected 0x0 at discovery", fav.Width, fav.Height)
		}
		if !fav.IsDataURI() {
			t.Error("expected a data URI candidate")
		}
	})

	t.Run("ignores unrelated tags", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
			<link rel="stylesheet" href="/main.css">
			<meta name="description" content="nothing to see">
			<img src="/logo.png">
		</head></html>`

		favicons, err := FromHTML(strings.NewReader(markup), "https://example.com", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 0 {
			t.Errorf("expected no favicons, got %d", len(favicons))
		}
	})
}

// TestFromHTMLFallbacks tests the conventional fallback catalog.
func TestFromHTMLFallbacks(t *testing.T) {
	t.Parallel()

	t.Run("returns fallbacks when nothing declared and opted in", func(t *testing.T) {
		t.Parallel()

		favicons, err := FromHTML(strings.NewReader("<html></html>"), "https://example.com", true)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != len(fallbackPaths) {
			t.Fatalf("expected %d fallbacks, got %d", len(fallbackPaths), len(favicons))
		}

		// Fixed priority order, favicon.ico first.
		if favicons[0].URL != "https://example.com/favicon.ico" {
			t.Errorf("got first fallback %q", favicons[0].URL)
		}
		if favicons[0].Format != "ico" {
			t.Errorf("got format %q, expected ico", favicons[0].Format)
		}

		// Fallback dimensions are never inferred, not even from names.
		for _, fav := range favicons {
			if fav.Width != 0 || fav.Height != 0 {
				t.Errorf("fallback %q has inferred size %dx%d", fav.URL, fav.Width, fav.Height)
			}
		}
	})

	t.Run("no fallbacks without opt-in", func(t *testing.T) {
		t.Parallel()

		favicons, err := FromHTML(strings.NewReader("<html></html>"), "https://example.com", false)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 0 {
			t.Errorf("expected no favicons, got %d", len(favicons))
		}
	})

	t.Run("no fallbacks when icons were declared", func(t *testing.T) {
		t.Parallel()

		markup := `<link rel="icon" href="/favicon.png">`
		favicons, err := FromHTML(strings.NewReader(markup), "https://example.com", true)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) != 1 {
			t.Errorf("expected only the declared favicon, got %d", len(favicons))
		}
	})

	t.Run("fallbacks stay relative without root", func(t *testing.T) {
		t.Parallel()

		favicons, err := FromHTML(strings.NewReader("<html></html>"), "", true)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}
		if len(favicons) == 0 {
			t.Fatal("expected fallbacks")
		}
		if favicons[0].URL != "favicon.ico" {
			t.Errorf("got %q, expected bare relative reference", favicons[0].URL)
		}
	})
}
