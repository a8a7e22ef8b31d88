package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{"boards", []string{"boards"}, []string{"english", "hexagon-odd"}, false},
		{"boards with ids", []string{"boards", "--ids"}, []string{"4 7 7 3 3 __111__"}, false},
		{"show", []string{"show", "english"}, []string{"pegs: 32"}, false},
		{"show reverse", []string{"show", "seed", "--reverse"}, []string{"(build-up)"}, false},
		{"show board id", []string{"show", "4 3 1 -1 -1 11O"}, []string{"pegs: 2"}, false},
		{"show unknown", []string{"show", "nope"}, nil, true},
		{"encode", []string{"encode", "11O"}, []string{"4 3 1 -1 -1 11O"}, false},
		{"encode hexagon", []string{"encode", "--type", "hexagon", "--singularity", "2,0", "__O__", "H_11_H", "_111_"}, []string{"6 6 3 2 0 __O__H_11_H_111_"}, false},
		{"encode ragged", []string{"encode", "11O", "1"}, nil, true},
		{"encode bad type", []string{"encode", "--type", "round", "11O"}, nil, true},
		{"decode", []string{"decode", "4 3 1 0 0 11O"}, []string{"rectangular", "3x1", "singularity: (0,0)"}, false},
		{"decode garbage", []string{"decode", "x"}, nil, true},
		{"solve", []string{"solve", "4 3 1 -1 -1 11O"}, []string{"Solved in 1 moves", "(0,0)->(2,0)"}, false},
		{"solve node limit", []string{"solve", "english", "--max-nodes", "1"}, []string{"Stopped after 1 positions"}, false},
		{"play", []string{"play", "english"}, []string{"new game: english", "> "}, false},
		{"bad log level", []string{"boards", "--log-level", "loud"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v\n%s", err, tt.wantErr, out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}
