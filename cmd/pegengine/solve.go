package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pegengine/pkg/engine"
)

var (
	solveMaxNodes    int
	solveSingularity bool
	solveTimeout     time.Duration
	solveProgress    int
)

func init() {
	solveCmd := &cobra.Command{
		Use:   "solve <board>",
		Short: "Search for a sequence of jumps leaving one peg",
		Long: `Search for a sequence of forward jumps that leaves a single peg.

Examples:
  pegengine solve triangle
  pegengine solve english --singularity --max-nodes 5000000
  pegengine solve english-diagonal --timeout 30s --progress 100000`,
		Args: cobra.ExactArgs(1),
		RunE: runSolve,
	}

	defaults := engine.DefaultSolveOptions()
	solveCmd.Flags().IntVarP(&solveMaxNodes, "max-nodes", "n", defaults.MaxNodes, "Positions to expand before giving up")
	solveCmd.Flags().BoolVarP(&solveSingularity, "singularity", "s", false, "The last peg must finish on the board's singularity")
	solveCmd.Flags().DurationVar(&solveTimeout, "timeout", 0, "Give up after this long (0 = no limit)")
	solveCmd.Flags().IntVar(&solveProgress, "progress", 0, "Log progress every N positions (0 = quiet)")

	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	b, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if solveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, solveTimeout)
		defer cancel()
	}

	opts := engine.SolveOptions{
		MaxNodes:           solveMaxNodes,
		RequireSingularity: solveSingularity,
		ProgressEvery:      solveProgress,
	}
	var progress engine.SolveProgressCallback
	if solveProgress > 0 {
		progress = func(p engine.SolveProgress) {
			log.WithFields(logrus.Fields{
				"nodes": p.Nodes,
				"depth": p.Depth,
				"best":  p.BestRemaining,
				"took":  p.Elapsed.Round(time.Millisecond),
			}).Info("searching")
		}
	}

	res, err := engine.Solve(ctx, b, opts, progress)
	out := cmd.OutOrStdout()
	switch {
	case err == nil && res.Solved:
		fmt.Fprintf(out, "Solved in %d moves (%d positions, %v)\n", len(res.Moves), res.Nodes, res.Elapsed.Round(time.Millisecond))
	case err == nil:
		fmt.Fprintf(out, "No solution; best line leaves %d pegs (%d positions)\n", res.Remaining, res.Nodes)
	case errors.Is(err, engine.ErrNodeLimit), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "Stopped after %d positions (%v); best line leaves %d pegs\n", res.Nodes, err, res.Remaining)
	default:
		return err
	}
	fmt.Fprint(out, engine.FormatOperations(res.Moves))
	return nil
}
