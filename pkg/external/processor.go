package external

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pegengine/pkg/engine"
)

// Version is reported by the version command.
const Version = "pegengine line protocol 1.0"

var errNoGame = errors.New("no game, use new or load")

// Processor runs protocol commands against one game. It is not safe for
// concurrent use; every connection gets its own.
type Processor struct {
	game     *engine.Game
	name     string
	maxNodes int
}

// NewProcessor creates a processor with no game loaded.
func NewProcessor(opts ServerOptions) *Processor {
	maxNodes := opts.SolveMaxNodes
	if maxNodes <= 0 {
		maxNodes = engine.DefaultSolveOptions().MaxNodes
	}
	return &Processor{maxNodes: maxNodes}
}

// Game returns the current game, or nil.
func (p *Processor) Game() *engine.Game {
	return p.game
}

// Execute parses and runs one line. quit is set when the client asked to
// end the session.
func (p *Processor) Execute(ctx context.Context, line string) (resp string, quit bool) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err), false
	}

	switch {
	case cmd.New != nil:
		return p.handleNew(cmd.New), false
	case cmd.Load != nil:
		return p.handleLoad(cmd.Load), false
	case cmd.Set != nil:
		return p.handleSet(cmd.Set), false
	case cmd.Simple == "help":
		return helpResponse(), false
	case cmd.Simple == "version":
		return Version + "\n", false
	case cmd.Simple == "boards":
		return boardsResponse(), false
	case cmd.Simple == "exit", cmd.Simple == "quit":
		return "Goodbye\n", true
	}

	if p.game == nil {
		return fmt.Sprintf("Error: %v\n", errNoGame), false
	}

	switch {
	case cmd.Select != nil:
		return p.handleSelect(cmd.Select), false
	case cmd.Move != nil:
		return p.handleMove(cmd.Move), false
	case cmd.Drag != nil:
		return p.moved(p.game.Drag(cmd.Drag.DX, cmd.Drag.DY)), false
	case cmd.Solve != nil:
		return p.handleSolve(ctx, cmd.Solve), false
	}

	switch cmd.Simple {
	case "undo":
		if !p.game.Undo() {
			return "Error: nothing to undo\n", false
		}
		return p.show(), false
	case "expand":
		if !p.game.Expand() {
			return "nothing to expand\n", false
		}
		return "expanded\n" + p.show(), false
	case "show":
		return p.show(), false
	case "score":
		return p.scoreResponse(), false
	case "export":
		return p.game.Board().Serialize() + "\n", false
	}
	return fmt.Sprintf("Error: unhandled command %q\n", line), false
}

func (p *Processor) start(b *engine.Board, name string, reverse bool) string {
	p.game = engine.NewGame(b, reverse)
	p.name = name
	mode := "forward"
	if reverse {
		mode = "build-up"
	}
	return fmt.Sprintf("new game: %s, %s, %d pegs\n", name, mode, p.game.RemainingPegCount()) + p.show()
}

func (p *Processor) handleNew(c *NewCmd) string {
	b, ok := engine.LookupBoard(c.Name)
	if !ok {
		return fmt.Sprintf("Error: unknown board %q, try boards\n", c.Name)
	}
	return p.start(b, c.Name, c.Reverse)
}

func (p *Processor) handleLoad(c *LoadCmd) string {
	b, err := engine.ParseBoard(c.BoardID())
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	return p.start(b, "custom", c.Reverse)
}

func (p *Processor) handleSet(c *SetCmd) string {
	switch c.Option {
	case "nodes":
		n, err := strconv.Atoi(c.Value)
		if err != nil || n <= 0 {
			return "Error: nodes must be a positive integer\n"
		}
		p.maxNodes = n
		return fmt.Sprintf("nodes set to %d\n", n)
	default:
		return fmt.Sprintf("Error: unknown option '%s'\n", c.Option)
	}
}

func (p *Processor) handleSelect(c *SelectCmd) string {
	at := engine.Pos(c.At.Col, c.At.Row)
	p.game.Select(at)
	if !p.game.Selected().Equal(at) {
		return fmt.Sprintf("Error: no peg at %v\n", at)
	}
	return p.show()
}

func (p *Processor) handleMove(c *MoveCmd) string {
	if c.Direction != "" {
		d, ok := engine.ParseDirection(c.Direction)
		if !ok {
			return fmt.Sprintf("Error: unknown direction '%s'\n", c.Direction)
		}
		return p.moved(p.game.Move(d))
	}
	from := engine.NoPosition
	if c.Source != nil {
		from = engine.Pos(c.Source.Col, c.Source.Row)
	}
	return p.moved(p.game.Click(engine.Pos(c.Target.Col, c.Target.Row), from))
}

func (p *Processor) moved(ok bool) string {
	if !ok {
		return "Error: illegal move\n"
	}
	return p.show()
}

func (p *Processor) handleSolve(ctx context.Context, c *SolveCmd) string {
	opts := engine.DefaultSolveOptions()
	opts.MaxNodes = p.maxNodes
	if c.MaxNodes > 0 {
		opts.MaxNodes = c.MaxNodes
	}

	res, err := engine.Solve(ctx, p.game.Board(), opts, nil)
	if err != nil && !errors.Is(err, engine.ErrNodeLimit) {
		return fmt.Sprintf("Error: %v\n", err)
	}
	log.WithFields(logrus.Fields{
		"board":  p.name,
		"solved": res.Solved,
		"nodes":  res.Nodes,
		"took":   res.Elapsed,
	}).Debug("solve finished")

	var sb strings.Builder
	switch {
	case res.Solved:
		fmt.Fprintf(&sb, "solved in %d moves (%d nodes)\n", len(res.Moves), res.Nodes)
	case err != nil:
		fmt.Fprintf(&sb, "gave up after %d nodes, best line leaves %d pegs\n", res.Nodes, res.Remaining)
	default:
		fmt.Fprintf(&sb, "no solution, best line leaves %d pegs\n", res.Remaining)
	}
	sb.WriteString(engine.FormatOperations(res.Moves))
	return sb.String()
}

func (p *Processor) show() string {
	return engine.FormatBoard(p.game.Snapshot())
}

func (p *Processor) scoreResponse() string {
	s := p.game.Score()
	var sb strings.Builder
	fmt.Fprintf(&sb, "score: %d\n", s.Score)
	fmt.Fprintf(&sb, "pegs: %d  jumpable: %d\n", s.RemainingPegCount, s.JumpablePegCount)
	fmt.Fprintf(&sb, "taken: %d  steps: %d\n", s.TakenCount, s.Steps)
	fmt.Fprintf(&sb, "combos: %d  max combo: %d  current: %d\n", s.ComboCount, s.MaxCombo, s.CurrentCombo)
	if s.Distance > 0 {
		fmt.Fprintf(&sb, "distance: %d\n", s.Distance)
	}
	return sb.String()
}

func boardsResponse() string {
	var sb strings.Builder
	for _, e := range engine.Boards() {
		fmt.Fprintf(&sb, "%-24s %s\n", e.Name, e.Description)
	}
	return sb.String()
}

// helpResponse returns help text.
func helpResponse() string {
	return `Available commands:
  new <name> [reverse]          - Start a catalog board (reverse = build-up mode)
  load <board-id> [reverse]     - Start a board from its ID
  select <col> <row>            - Select a peg
  move <direction>              - Jump the selected peg (up, downLeft, ...)
  move <col> <row> [from c r]   - Jump onto (col,row)
  drag <dx> <dy>                - Jump the selected peg along a drag
  undo                          - Take back the last move
  expand                        - Grow a build-up board around its pegs
  show                          - Print the board
  score                         - Print the score
  export                        - Print the current board ID
  boards                        - List catalog boards
  solve [nodes]                 - Search for a solution from here
  set nodes <n>                 - Set the default solver budget
  version                       - Show version information
  exit                          - Close connection
`
}

// Serve reads commands from r until EOF or exit and writes responses to w.
func (p *Processor) Serve(ctx context.Context, r io.Reader, w io.Writer, prompt bool) error {
	scanner := bufio.NewScanner(r)

	// Send initial prompt if enabled
	if prompt {
		io.WriteString(w, "> ")
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if prompt {
				io.WriteString(w, "> ")
			}
			continue
		}

		resp, quit := p.Execute(ctx, line)
		if _, err := io.WriteString(w, resp); err != nil {
			return err
		}
		if quit {
			return nil
		}
		if prompt {
			io.WriteString(w, "> ")
		}
	}
	return scanner.Err()
}
