package sessioncmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hemlineco/stylist/chat"
	"github.com/hemlineco/stylist/pkg/logger"
)

const sessionLongDesc string = `Print the transcript the backend holds for a session.

Fetches the read-only session endpoint and prints each turn in order,
including image references with their provenance and bounding boxes.

Examples:
  stylist session 2c9a1f0e-77a4-4e9b-9a84-0f3ce2d1b9d0
  stylist session --server http://localhost:8000 <session-id>`

const sessionShortDesc string = "Print a session's server-held transcript"

type sessionCommander struct {
	configPath string
	serverURL  string
	debug      bool
}

func NewSessionCmd() *cobra.Command {
	cmder := &sessionCommander{}

	cmd := &cobra.Command{
		Use:   "session <session-id>",
		Short: sessionShortDesc,
		Long:  sessionLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().StringVar(&cmder.serverURL, "server", "", "Backend base URL (overrides config)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *sessionCommander) run(ctx context.Context, cmd *cobra.Command, sessionID string) error {
	cfg, err := chat.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.serverURL != "" {
		cfg.ServerURL = c.serverURL
	}

	log := logger.NewTUILogger(cfg.Debug || c.debug)
	defer log.Sync()

	transport := chat.NewHTTPTransport(cfg, log)
	data, err := transport.Session(ctx, sessionID)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			return fmt.Errorf("no session %s on %s", sessionID, cfg.ServerURL)
		}
		return fmt.Errorf("could not fetch session: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %s (%d messages", data.SessionID, len(data.Messages))
	if data.HasModelImage {
		fmt.Fprint(out, ", model photo on file")
	}
	fmt.Fprintln(out, ")")

	for _, msg := range data.Messages {
		fmt.Fprintf(out, "\n[%s] %s\n", msg.Role, msg.Content)
		for _, img := range msg.Images {
			fmt.Fprintf(out, "    %s %s (%s)", img.ImageID, img.URL, img.Type)
			if img.BBox != nil {
				fmt.Fprintf(out, " bbox=(%.0f,%.0f,%.0f,%.0f)", img.BBox.X, img.BBox.Y, img.BBox.W, img.BBox.H)
			}
			fmt.Fprintln(out)
		}
	}

	return nil
}
