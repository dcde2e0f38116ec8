package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hemlineco/stylist/cmd/stylist/chatcmd"
	"github.com/hemlineco/stylist/cmd/stylist/sessioncmd"
)

func main() {
	root := &cobra.Command{
		Use:           "stylist",
		Short:         "Terminal client for the fashion recommendation backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(chatcmd.NewChatCmd())
	root.AddCommand(sessioncmd.NewSessionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
