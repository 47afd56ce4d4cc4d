// Package extractfavicon discovers favicon references in HTML markup and
// resolves their real pixel dimensions without downloading full images.
//
// # Architecture
//
// Discovery and resolution are two separate phases with separate record
// types:
//
//   - Favicon: a discovered, not-yet-downloaded candidate. Produced by
//     FromHTML / FromURL by scanning icon-declaring <link> and <meta> tags,
//     normalizing URLs (including inline data URIs), and inferring declared
//     sizes from the sizes attribute or the filename.
//   - ResolvedIcon: the outcome of one network attempt for a candidate.
//     Produced by Download, GuessSize, GuessMissingSizes, and
//     CheckAvailability.
//
// Both are immutable value types: every update produces a new record, and
// candidates deduplicate by structural equality.
//
// # Size probing
//
// GuessSize determines an image's dimensions from only the first bytes of a
// streaming response. It feeds fixed-size chunks to an incremental header
// parser and stops as soon as the size is known or a small byte budget is
// exhausted, so the worst-case bandwidth per icon is a constant regardless
// of file size. A budget exhausted before the header decodes is not a
// failure: the icon stays valid with unknown dimensions.
//
// # Errors
//
// Network failures and content mismatches are data, not errors: they are
// recorded on the returned ResolvedIcon (Reachable, Valid, StatusCode) and
// never abort a batch. Operations accept a context.Context; cancelling it
// aborts the underlying streams.
//
// # Usage
//
//	client := extractfavicon.NewClient()
//	favicons, err := extractfavicon.FromURL(ctx, client, "https://example.com", true)
//	if err != nil {
//		return err
//	}
//	icons := extractfavicon.Download(ctx, client, favicons,
//		extractfavicon.WithMode(extractfavicon.ModeLargest))
package extractfavicon
