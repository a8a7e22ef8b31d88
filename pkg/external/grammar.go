package external

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Cells must come before Number or a stream like "111O111" splits into
// several tokens. Commands are lower case so they never lex as Cells.
var commandLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"Cells", `[H_O1-9]*[H_O][H_O1-9]*`},
	{"Number", `[-+]?\d+(\.\d+)?`},
	{"Ident", `[a-z][a-zA-Z0-9-]*`},
	{"whitespace", `[ \t\r]+`},
})

// Command is one parsed protocol line. Exactly one field is set.
type Command struct {
	New    *NewCmd    `  @@`
	Load   *LoadCmd   `| @@`
	Select *SelectCmd `| @@`
	Move   *MoveCmd   `| @@`
	Drag   *DragCmd   `| @@`
	Solve  *SolveCmd  `| @@`
	Set    *SetCmd    `| @@`
	Simple string     `| @( "undo" | "expand" | "show" | "score" | "export" | "boards" | "help" | "version" | "exit" | "quit" )`
}

// NewCmd: new <name> [reverse]
type NewCmd struct {
	Name    string `"new" @Ident`
	Reverse bool   `@"reverse"?`
}

// LoadCmd: load <type> <width> <height> <col> <row> <cells> [reverse]
type LoadCmd struct {
	Type    int    `"load" @Number`
	Width   int    `@Number`
	Height  int    `@Number`
	Col     int    `@Number`
	Row     int    `@Number`
	Cells   string `@(Cells | Number)`
	Reverse bool   `@"reverse"?`
}

// BoardID reassembles the board ID the command carried.
func (c *LoadCmd) BoardID() string {
	return fmt.Sprintf("%d %d %d %d %d %s", c.Type, c.Width, c.Height, c.Col, c.Row, c.Cells)
}

// Coord is a "<col> <row>" pair.
type Coord struct {
	Col int `@Number`
	Row int `@Number`
}

// SelectCmd: select <col> <row>
type SelectCmd struct {
	At Coord `"select" @@`
}

// MoveCmd: move <direction> | move <col> <row> [from <col> <row>]
type MoveCmd struct {
	Direction string `"move" ( @Ident`
	Target    *Coord `       | @@ )`
	Source    *Coord `( "from" @@ )?`
}

// DragCmd: drag <dx> <dy>
type DragCmd struct {
	DX float64 `"drag" @Number`
	DY float64 `@Number`
}

// SolveCmd: solve [max-nodes]
type SolveCmd struct {
	Keyword  string `@"solve"`
	MaxNodes int    `@Number?`
}

// SetCmd: set <option> <value>
type SetCmd struct {
	Option string `"set" @Ident`
	Value  string `@(Ident | Number)`
}

var commandParser = participle.MustBuild[Command](
	participle.Lexer(commandLexer),
)

// ParseCommand parses one protocol line.
func ParseCommand(line string) (*Command, error) {
	return commandParser.ParseString("", strings.TrimSpace(line))
}
