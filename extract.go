package extractfavicon

import (
	"context"
	"errors"
	"io"
	"net/url"

	"golang.org/x/net/html/charset"
)

// FromURL fetches a page and extracts its favicon candidates.
//
// The root URL for resolving relative candidates is derived from the final
// (post-redirect) page URL, so icons land on the host that actually served
// the markup. An unreachable page yields an empty result, not an error;
// only context cancellation surfaces as one.
func FromURL(ctx context.Context, c *Client, pageURL string, includeFallbacks bool) ([]Favicon, error) {
	if c == nil {
		c = NewClient()
	}

	resp, err := c.open(ctx, pageURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Debug("page fetch failed", "url", pageURL, "error", err)
		return []Favicon{}, nil
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("page fetch returned non-success status",
			"url", pageURL, "status", resp.StatusCode)
		return []Favicon{}, nil
	}

	root := rootURLOf(resp.Request.URL)

	// Decode the body with whatever charset the server declared; fall
	// back to the raw bytes when detection fails.
	body := io.LimitReader(resp.Body, c.maxBodySize)
	reader, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		reader = body
	}

	favicons, err := FromHTML(reader, root, includeFallbacks)
	if err != nil {
		// html.Parse only fails when the reader does; treat a broken
		// body stream like an unreachable page.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.logger.Debug("page body read failed", "url", pageURL, "error", err)
		return []Favicon{}, nil
	}
	return favicons, nil
}

// rootURLOf reduces a page URL to its scheme and host, the base that
// relative icon references resolve against.
func rootURLOf(u *url.URL) string {
	root := url.URL{Scheme: u.Scheme, Host: u.Host}
	return root.String()
}
