package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/pegengine/internal/boardid"
	"github.com/yourusername/pegengine/pkg/engine"
)

var (
	showIDs     bool
	showReverse bool
	encodeType  string
	encodeAt    string
)

func init() {
	boardsCmd := &cobra.Command{
		Use:   "boards",
		Short: "List the board catalog",
		Args:  cobra.NoArgs,
		RunE:  runBoards,
	}
	boardsCmd.Flags().BoolVar(&showIDs, "ids", false, "Print each board's ID")

	showCmd := &cobra.Command{
		Use:   "show <board>",
		Short: "Draw a board",
		Long: `Draw a board and its derived hole status.

Examples:
  pegengine show english
  pegengine show triangle --reverse
  pegengine show "4 3 1 -1 -1 11O"`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
	showCmd.Flags().BoolVarP(&showReverse, "reverse", "r", false, "Show the board in build-up mode")

	encodeCmd := &cobra.Command{
		Use:   "encode <row>...",
		Short: "Build a board ID from rows of cell symbols",
		Long: `Build a board ID from rows of cell symbols.

Symbols: H half cell, _ off-board, O empty, 1-9 pegs.

Examples:
  pegengine encode 11O
  pegengine encode --type hexagon --singularity 2,0 __O__ H_11_H _111_`,
		Args: cobra.MinimumNArgs(1),
		RunE: runEncode,
	}
	encodeCmd.Flags().StringVarP(&encodeType, "type", "t", "rectangular", "Topology: rectangular, hexagon or octagon")
	encodeCmd.Flags().StringVarP(&encodeAt, "singularity", "s", "", "Singularity as col,row")

	decodeCmd := &cobra.Command{
		Use:   "decode <board-id>",
		Short: "Check a board ID and describe it",
		Args:  cobra.ExactArgs(1),
		RunE:  runDecode,
	}

	rootCmd.AddCommand(boardsCmd, showCmd, encodeCmd, decodeCmd)
}

func runBoards(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, e := range engine.Boards() {
		fmt.Fprintf(out, "%-24s %-12s %3d pegs  %s\n", e.Name, e.Board.Topology(), e.Board.PegCount(), e.Description)
		if showIDs {
			fmt.Fprintf(out, "  %s\n", e.Board.Serialize())
		}
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	b, err := loadBoard(args[0])
	if err != nil {
		return err
	}
	g := engine.NewGame(b, showReverse)
	fmt.Fprint(cmd.OutOrStdout(), engine.FormatBoard(g.Snapshot()))
	return nil
}

// parseBoardType accepts a topology name or its numeric tag.
func parseBoardType(s string) (engine.BoardType, error) {
	for _, t := range []engine.BoardType{engine.Rectangular, engine.Hexagon, engine.Octagon} {
		if s == t.String() || s == strconv.Itoa(int(t)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown board type %q", s)
}

// parseCoord parses "col,row".
func parseCoord(s string) (engine.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return engine.NoPosition, fmt.Errorf("invalid position %q (use col,row)", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return engine.NoPosition, fmt.Errorf("invalid column: %w", err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return engine.NoPosition, fmt.Errorf("invalid row: %w", err)
	}
	return engine.Pos(col, row), nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	t, err := parseBoardType(encodeType)
	if err != nil {
		return err
	}
	at := engine.NoPosition
	if encodeAt != "" {
		if at, err = parseCoord(encodeAt); err != nil {
			return err
		}
	}

	width := 0
	for _, row := range args {
		if len(row) > width {
			width = len(row)
		}
	}
	id := boardid.Encode(boardid.Layout{
		Type:   int(t),
		Width:  width,
		Height: len(args),
		Col:    at.Col,
		Row:    at.Row,
		Rows:   args,
	})

	// round trip through the decoder so malformed rows are reported
	b, err := engine.ParseBoard(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), b.Serialize())
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	b, err := engine.ParseBoard(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "type:        %s (%s)\n", b.Type(), b.Topology())
	fmt.Fprintf(out, "size:        %dx%d\n", b.Width(), b.Height())
	fmt.Fprintf(out, "pegs:        %d\n", b.PegCount())
	fmt.Fprintf(out, "singularity: %v\n", b.Singularity())
	fmt.Fprintf(out, "plural:      %v\n", b.Plural())
	fmt.Fprint(out, engine.FormatBoard(engine.NewGame(b, false).Snapshot()))
	return nil
}
