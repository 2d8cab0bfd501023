package mepa

import "strings"

// Instruction is one line of MEPA text.
type Instruction struct {
	Label    string
	Mnemonic string
	Params   []string
}

// String renders the instruction without the trailing newline:
//
//	[label: ]MNEMONIC[ p1[,p2]]
//
// Empty parameters are skipped, and the second parameter is only written when
// the first one is present.
func (in Instruction) String() string {
	var sb strings.Builder
	if in.Label != "" {
		sb.WriteString(in.Label)
		sb.WriteString(": ")
	}
	sb.WriteString(in.Mnemonic)
	if len(in.Params) > 0 && in.Params[0] != "" {
		sb.WriteByte(' ')
		sb.WriteString(in.Params[0])
		if len(in.Params) > 1 && in.Params[1] != "" {
			sb.WriteByte(',')
			sb.WriteString(in.Params[1])
		}
	}
	return sb.String()
}

// Program is an assembled instruction stream with its labels resolved to
// instruction indices.
type Program struct {
	Instructions []Instruction
	Labels       map[string]int
	// Lines maps each instruction index to its 1-based source line.
	Lines []int
}
