package chatcmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hemlineco/stylist/chat"
	"github.com/hemlineco/stylist/pkg/logger"
	"github.com/hemlineco/stylist/tui"
)

const chatLongDesc string = `Start an interactive styling conversation.

Opens a terminal chat against the recommendation backend. Attach photos
of pieces you're looking for with /attach, and set a photo of yourself
with /model to get virtual try-on previews.

Examples:
  stylist chat
  stylist chat --server http://localhost:8000
  stylist chat --resume 2c9a1f0e-77a4-4e9b-9a84-0f3ce2d1b9d0`

const chatShortDesc string = "Start an interactive styling conversation"

type chatCommander struct {
	configPath string
	serverURL  string
	resume     string
	debug      bool
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().StringVar(&cmder.serverURL, "server", "", "Backend base URL (overrides config)")
	cmd.Flags().StringVar(&cmder.resume, "resume", "", "Session ID to rehydrate before chatting")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("chat needs an interactive terminal")
	}

	cfg, err := chat.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.serverURL != "" {
		cfg.ServerURL = c.serverURL
	}
	if c.debug {
		cfg.Debug = true
	}

	log := logger.NewTUILogger(cfg.Debug)
	defer log.Sync()

	transport := chat.NewHTTPTransport(cfg, log)
	ctrl := chat.NewController(transport, log)

	if c.resume != "" {
		if _, err := ctrl.Rehydrate(ctx, c.resume); err != nil {
			return fmt.Errorf("could not resume session %s: %w", c.resume, err)
		}
	}

	p := tea.NewProgram(tui.New(ctrl, log), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}
