package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/yourusername/pegengine/pkg/engine"
	"github.com/yourusername/pegengine/pkg/external"
)

var playReverse bool

func init() {
	playCmd := &cobra.Command{
		Use:   "play [board]",
		Short: "Play interactively on the terminal",
		Long: `Play interactively with the line protocol commands (type "help").

Examples:
  pegengine play english
  pegengine play seed --reverse`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPlay,
	}
	playCmd.Flags().BoolVarP(&playReverse, "reverse", "r", false, "Start in build-up mode")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := external.NewProcessor(external.DefaultServerOptions())
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		b, err := loadBoard(args[0])
		if err != nil {
			return err
		}
		line := "new " + args[0]
		if _, ok := engine.LookupBoard(args[0]); !ok {
			line = "load " + b.Serialize()
		}
		if playReverse {
			line += " reverse"
		}
		resp, _ := p.Execute(ctx, line)
		fmt.Fprint(out, resp)
	}

	return p.Serve(ctx, cmd.InOrStdin(), out, true)
}
