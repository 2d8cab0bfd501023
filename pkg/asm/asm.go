// Package asm turns MEPA text back into a mepa.Program, resolving the
// symbolic labels the compiler leaves in the instruction stream.
package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"lpdc/pkg/mepa"
)

type Assembler struct {
	labels map[string]int
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels: make(map[string]int),
	}
}

func Assemble(code string) (*mepa.Program, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) (*mepa.Program, error) {
	lines, err := parseLines(code)
	if err != nil {
		return nil, err
	}

	if err := a.pass1(lines); err != nil {
		return nil, err
	}

	return a.pass2(lines)
}

// parseLines parses everything up to the end marker. A stream without the
// marker was cut short and is rejected.
func parseLines(code string) ([]parsedLine, error) {
	var lines []parsedLine
	for i, raw := range strings.Split(code, "\n") {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}
		if p.mnemonic == mepa.EndMarker {
			if len(p.labels) > 0 || len(p.operands) > 0 {
				return nil, fmt.Errorf("malformed end marker on line %d", lineNo)
			}
			return lines, nil
		}
		lines = append(lines, p)
	}
	return nil, fmt.Errorf("missing %s end marker", mepa.EndMarker)
}

// pass1 assigns every label the index of the instruction it prefixes.
func (a *Assembler) pass1(lines []parsedLine) error {
	index := 0
	for _, p := range lines {
		for _, lbl := range p.labels {
			key := normalizeLabel(lbl)
			if _, exists := a.labels[key]; exists {
				return fmt.Errorf("duplicate label '%s' on line %d", lbl, p.lineNo)
			}
			a.labels[key] = index
		}
		if p.mnemonic == "" {
			if len(p.labels) > 0 {
				return fmt.Errorf("label without instruction on line %d", p.lineNo)
			}
			continue
		}
		index++
	}
	return nil
}

func (a *Assembler) pass2(lines []parsedLine) (*mepa.Program, error) {
	prog := &mepa.Program{
		Labels: a.labels,
	}

	for _, p := range lines {
		if p.mnemonic == "" {
			continue
		}

		arity, ok := mepa.Arity[p.mnemonic]
		if !ok {
			return nil, fmt.Errorf("unknown instruction '%s' on line %d", p.mnemonic, p.lineNo)
		}
		if len(p.operands) != arity {
			return nil, fmt.Errorf("%s expects %d operand(s), got %d on line %d",
				p.mnemonic, arity, len(p.operands), p.lineNo)
		}

		switch {
		case mepa.IsBranch(p.mnemonic):
			key := normalizeLabel(p.operands[0])
			if _, ok := a.labels[key]; !ok {
				return nil, fmt.Errorf("undefined label '%s' on line %d", p.operands[0], p.lineNo)
			}
			p.operands[0] = key
		case p.mnemonic == mepa.OpCRCT:
			if _, err := mepa.ParseValue(p.operands[0]); err != nil {
				return nil, fmt.Errorf("invalid constant '%s' on line %d", p.operands[0], p.lineNo)
			}
		default:
			for _, op := range p.operands {
				if _, err := strconv.Atoi(op); err != nil {
					return nil, fmt.Errorf("invalid operand '%s' on line %d", op, p.lineNo)
				}
			}
		}

		label := ""
		if len(p.labels) > 0 {
			label = normalizeLabel(p.labels[len(p.labels)-1])
		}
		prog.Instructions = append(prog.Instructions, mepa.Instruction{
			Label:    label,
			Mnemonic: p.mnemonic,
			Params:   p.operands,
		})
		prog.Lines = append(prog.Lines, p.lineNo)
	}

	return prog, nil
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if strings.ContainsAny(beforeColon, " \t") {
			break
		}
		if !isIdentifier(beforeColon) {
			return p, fmt.Errorf("invalid label '%s' on line %d", beforeColon, lineNo)
		}

		p.labels = append(p.labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	fields := strings.Fields(line)
	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) > 2 {
		return p, fmt.Errorf("unexpected text after operands on line %d", lineNo)
	}
	if len(fields) == 2 {
		for _, op := range strings.Split(fields[1], ",") {
			if op == "" {
				return p, fmt.Errorf("empty operand on line %d", lineNo)
			}
			p.operands = append(p.operands, op)
		}
	}

	return p, nil
}

func stripComments(line string) string {
	if cut := strings.Index(line, "//"); cut >= 0 {
		return line[:cut]
	}
	return line
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func normalizeLabel(label string) string {
	return strings.ToUpper(label)
}
