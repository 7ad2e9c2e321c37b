package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "meet",
		Short: "Signaling server for browser audio/video meetings",
		Long: `Meet keeps the directory of live meetings, tracks who is in each room
and relays WebRTC negotiation between browsers. Media flows peer to peer.

Running meet without a subcommand starts the server.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	serve := newServeCmd()
	root.Flags().AddFlagSet(serve.Flags())
	root.RunE = serve.RunE

	root.AddCommand(serve, newMeetingsCmd())
	return root
}

// setupLogger applies the configured level. JSON output in release mode,
// console output otherwise.
func setupLogger(level, mode string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
