package extractfavicon

import "testing"

// TestFavicon tests the candidate value type helpers.
func TestFavicon(t *testing.T) {
	t.Parallel()

	t.Run("area ranks by pixels", func(t *testing.T) {
		t.Parallel()

		fav := Favicon{Width: 32, Height: 16}
		if fav.Area() != 512 {
			t.Errorf("got area %d, expected 512", fav.Area())
		}
	})

	t.Run("unknown dimensions have zero area", func(t *testing.T) {
		t.Parallel()

		fav := Favicon{Width: 144}
		if fav.Area() != 0 {
			t.Errorf("got area %d, expected 0", fav.Area())
		}
		if fav.HasSize() {
			t.Error("expected HasSize to be false with one unknown dimension")
		}
	})

	t.Run("withSize refines but never degrades", func(t *testing.T) {
		t.Parallel()

		fav := Favicon{URL: "https://example.com/icon.png", Width: 64, Height: 64}

		refined := fav.withSize(128, 128)
		if refined.Width != 128 || refined.Height != 128 {
			t.Errorf("got %dx%d, expected 128x128", refined.Width, refined.Height)
		}

		kept := fav.withSize(0, 0)
		if kept != fav {
			t.Errorf("zero size must not degrade the record: got %+v", kept)
		}

		// The original value is untouched either way.
		if fav.Width != 64 || fav.Height != 64 {
			t.Errorf("original mutated: %+v", fav)
		}
	})

	t.Run("data URI detection", func(t *testing.T) {
		t.Parallel()

		if !(Favicon{URL: "data:image/png;base64,AAAA"}).IsDataURI() {
			t.Error("expected data URI to be detected")
		}
		if (Favicon{URL: "https://example.com/favicon.ico"}).IsDataURI() {
			t.Error("expected network URL not to be a data URI")
		}
	})
}

// TestReachabilityString tests the tri-state names.
func TestReachabilityString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state Reachability
		want  string
	}{
		{ReachabilityUnknown, "unknown"},
		{Reachable, "reachable"},
		{Unreachable, "unreachable"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("got %q, expected %q", got, tt.want)
		}
	}
}

// TestNewResolvedIcon tests the pre-attempt wrapper state.
func TestNewResolvedIcon(t *testing.T) {
	t.Parallel()

	icon := NewResolvedIcon(Favicon{URL: "https://example.com/favicon.ico", Format: "ico"})
	if icon.Reachable != ReachabilityUnknown {
		t.Errorf("got reachability %v, expected unknown", icon.Reachable)
	}
	if icon.Valid {
		t.Error("expected Valid to start false")
	}
	if icon.StatusCode != 0 {
		t.Errorf("got status %d, expected 0 before any attempt", icon.StatusCode)
	}
}
