// pegengine - peg-solitaire boards, play and solver from the command line
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pegengine/pkg/api"
	"github.com/yourusername/pegengine/pkg/engine"
	"github.com/yourusername/pegengine/pkg/external"
)

const version = "0.1.0"

var (
	log      = logrus.New()
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "pegengine",
	Short: "Peg solitaire engine",
	Long: `pegengine plays, converts and solves peg-solitaire boards.

Boards are given by catalog name (see "pegengine boards") or by board ID,
the single-line form "<type> <width> <height> <col> <row> <cells>".

Examples:
  pegengine show english
  pegengine solve triangle
  pegengine play english-diagonal
  pegengine serve --port 8080`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		api.SetLogger(log)
		external.SetLogger(log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// loadBoard resolves a catalog name or a board ID.
func loadBoard(arg string) (*engine.Board, error) {
	if b, ok := engine.LookupBoard(arg); ok {
		return b, nil
	}
	if !strings.Contains(arg, " ") {
		return nil, fmt.Errorf("unknown board %q (known: %s)", arg, strings.Join(engine.BoardNames(), ", "))
	}
	return engine.ParseBoard(arg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
