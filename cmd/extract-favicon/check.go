package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	extractfavicon "github.com/AlexMili/extract-favicon"
	"github.com/AlexMili/extract-favicon/internal/config"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [icon-url]...",
		Short: "Check whether icon URLs are reachable",
		Long: `Check issues a lightweight HEAD request (falling back to GET when the
server rejects HEAD) against each icon URL and reports its availability.
Redirects are followed and the final URL is reported.

Examples:
  # Check a single icon
  extract-favicon check https://example.com/favicon.ico

  # Check several icons with a shorter pause between requests
  extract-favicon check --sleep 500ms https://a.com/favicon.ico https://b.com/icon.png`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().DurationP("sleep", "s", config.DefaultSleep,
		"Pause between successive checks")
	cmd.Flags().Bool("force", false,
		"Re-check icons even when their state is already known")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent on every request")
	cmd.Flags().BoolP("json", "j", false,
		"Output results as JSON")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no icon URLs provided")
	}

	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	sleep, err := cmd.Flags().GetDuration("sleep")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	userAgent, err := cmd.Flags().GetString("user-agent")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	client := extractfavicon.NewClient(
		extractfavicon.WithHTTPClient(&http.Client{Timeout: timeout}),
		extractfavicon.WithUserAgent(userAgent),
		extractfavicon.WithLogger(logger),
	)

	icons := make([]extractfavicon.ResolvedIcon, 0, len(args))
	for _, arg := range args {
		icons = append(icons, extractfavicon.NewResolvedIcon(extractfavicon.Favicon{URL: arg}))
	}

	checked := extractfavicon.CheckAvailability(ctx, client, icons,
		extractfavicon.WithSleep(sleep),
		extractfavicon.WithForce(force),
	)

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(checked)
	}

	for _, icon := range checked {
		fmt.Fprintln(cmd.OutOrStdout(), formatCheckLine(icon))
	}

	return ctx.Err()
}

// formatCheckLine renders one availability result for terminal output.
func formatCheckLine(icon extractfavicon.ResolvedIcon) string {
	switch icon.Reachable {
	case extractfavicon.Reachable:
		if icon.Redirected {
			// The engine replaces the URL with the redirect target.
			return fmt.Sprintf("[+] %s (%d, via redirect)", icon.URL, icon.StatusCode)
		}
		return fmt.Sprintf("[+] %s (%d)", icon.URL, icon.StatusCode)
	case extractfavicon.Unreachable:
		if icon.StatusCode > 0 {
			return fmt.Sprintf("[x] %s (%d)", icon.URL, icon.StatusCode)
		}
		return fmt.Sprintf("[x] %s (connection failed)", icon.URL)
	default:
		return fmt.Sprintf("[?] %s (not checked)", icon.URL)
	}
}
