package mepa

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
)

var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrBadAddress     = errors.New("address out of range")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNoInput        = errors.New("no input for LEIT")
	ErrStepLimit      = errors.New("step limit reached")
	ErrNoHalt         = errors.New("program ended without PARA")
)

// RuntimeError reports the instruction that failed.
type RuntimeError struct {
	PC          int
	Line        int
	Instruction Instruction
	Err         error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d (pc %d) %s: %v", e.Line, e.PC, e.Instruction, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Machine executes a Program.
//
// M is the data stack and s its top (len(M)-1). Only lexical level 0 exists,
// so the display has a single base register D0.
type Machine struct {
	Program *Program

	M  []Value
	D0 int
	PC int

	Steps    int
	MaxSteps int // 0 means unbounded
	Halted   bool

	// Input feeds LEIT; Output receives one line per IMPR.
	Input  io.Reader
	Output io.Writer

	// Trace, when non-nil, receives one debug record per executed instruction.
	Trace *slog.Logger

	in *bufio.Reader
}

func NewMachine(prog *Program, input io.Reader, output io.Writer) *Machine {
	return &Machine{
		Program: prog,
		Input:   input,
		Output:  output,
	}
}

func (m *Machine) push(v Value) {
	m.M = append(m.M, v)
}

func (m *Machine) pop() (Value, error) {
	if len(m.M) == 0 {
		return Value{}, ErrStackUnderflow
	}
	v := m.M[len(m.M)-1]
	m.M = m.M[:len(m.M)-1]
	return v, nil
}

func (m *Machine) pop2() (Value, Value, error) {
	b, err := m.pop()
	if err != nil {
		return Value{}, Value{}, err
	}
	a, err := m.pop()
	if err != nil {
		return Value{}, Value{}, err
	}
	return a, b, nil
}

// cell resolves the level/offset operands of CRVL and ARMZ to a stack index.
func (m *Machine) cell(in Instruction) (int, error) {
	level, err := strconv.Atoi(in.Params[0])
	if err != nil {
		return 0, err
	}
	if level != 0 {
		return 0, fmt.Errorf("lexical level %d: %w", level, ErrBadAddress)
	}
	offset, err := strconv.Atoi(in.Params[1])
	if err != nil {
		return 0, err
	}
	idx := m.D0 + offset
	if idx < 0 || idx >= len(m.M) {
		return 0, fmt.Errorf("cell %d: %w", idx, ErrBadAddress)
	}
	return idx, nil
}

func (m *Machine) jump(label string) error {
	target, ok := m.Program.Labels[label]
	if !ok {
		return fmt.Errorf("undefined label %q", label)
	}
	m.PC = target
	return nil
}

func (m *Machine) read() (Value, error) {
	if m.Input == nil {
		return Value{}, ErrNoInput
	}
	if m.in == nil {
		m.in = bufio.NewReader(m.Input)
	}
	var word string
	if _, err := fmt.Fscan(m.in, &word); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Value{}, ErrNoInput
		}
		return Value{}, err
	}
	return ParseValue(word)
}

func arith(op string, a, b Value) (Value, error) {
	if a.IsReal || b.IsReal {
		x, y := a.float(), b.float()
		switch op {
		case OpSOMA:
			return RealValue(x + y), nil
		case OpSUBT:
			return RealValue(x - y), nil
		case OpMULT:
			return RealValue(x * y), nil
		default:
			if y == 0 {
				return Value{}, ErrDivisionByZero
			}
			return RealValue(x / y), nil
		}
	}
	switch op {
	case OpSOMA:
		return IntValue(a.Int + b.Int), nil
	case OpSUBT:
		return IntValue(a.Int - b.Int), nil
	case OpMULT:
		return IntValue(a.Int * b.Int), nil
	default:
		if b.Int == 0 {
			return Value{}, ErrDivisionByZero
		}
		return IntValue(a.Int / b.Int), nil
	}
}

func compare(op string, a, b Value) Value {
	var c int
	if a.IsReal || b.IsReal {
		x, y := a.float(), b.float()
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	} else {
		switch {
		case a.Int < b.Int:
			c = -1
		case a.Int > b.Int:
			c = 1
		}
	}
	switch op {
	case OpCMME:
		return boolValue(c < 0)
	case OpCMEG:
		return boolValue(c <= 0)
	case OpCMIG:
		return boolValue(c == 0)
	case OpCMDG:
		return boolValue(c != 0)
	case OpCMMA:
		return boolValue(c > 0)
	default:
		return boolValue(c >= 0)
	}
}

// Step executes the instruction at PC.
func (m *Machine) Step() error {
	if m.Halted {
		return nil
	}
	if m.PC < 0 || m.PC >= len(m.Program.Instructions) {
		return ErrNoHalt
	}
	if m.MaxSteps > 0 && m.Steps >= m.MaxSteps {
		return ErrStepLimit
	}

	pc := m.PC
	in := m.Program.Instructions[pc]
	m.PC++
	m.Steps++

	if m.Trace != nil {
		m.Trace.Debug("step", "pc", pc, "instr", in.String(), "depth", len(m.M))
	}

	if err := m.exec(in); err != nil {
		line := 0
		if pc < len(m.Program.Lines) {
			line = m.Program.Lines[pc]
		}
		return &RuntimeError{PC: pc, Line: line, Instruction: in, Err: err}
	}
	return nil
}

func (m *Machine) exec(in Instruction) error {
	switch in.Mnemonic {

	case OpINPP:
		m.M = m.M[:0]
		m.D0 = 0

	case OpAMEM:
		n, err := strconv.Atoi(in.Params[0])
		if err != nil {
			return err
		}
		for range n {
			m.push(IntValue(0))
		}

	case OpDMEM:
		n, err := strconv.Atoi(in.Params[0])
		if err != nil {
			return err
		}
		if n > len(m.M) {
			return ErrStackUnderflow
		}
		m.M = m.M[:len(m.M)-n]

	case OpPARA:
		m.Halted = true

	case OpNADA:

	case OpCRCT:
		v, err := ParseValue(in.Params[0])
		if err != nil {
			return err
		}
		m.push(v)

	case OpCRVL:
		idx, err := m.cell(in)
		if err != nil {
			return err
		}
		m.push(m.M[idx])

	case OpARMZ:
		v, err := m.pop()
		if err != nil {
			return err
		}
		idx, err := m.cell(in)
		if err != nil {
			return err
		}
		m.M[idx] = v

	case OpLEIT:
		v, err := m.read()
		if err != nil {
			return err
		}
		m.push(v)

	case OpIMPR:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if m.Output != nil {
			if _, err := fmt.Fprintln(m.Output, v); err != nil {
				return err
			}
		}

	case OpDSVS:
		return m.jump(in.Params[0])

	case OpDSVF:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if v.isZero() {
			return m.jump(in.Params[0])
		}

	case OpSOMA, OpSUBT, OpMULT, OpDIVI:
		a, b, err := m.pop2()
		if err != nil {
			return err
		}
		v, err := arith(in.Mnemonic, a, b)
		if err != nil {
			return err
		}
		m.push(v)

	case OpCMME, OpCMEG, OpCMIG, OpCMDG, OpCMMA, OpCMAG:
		a, b, err := m.pop2()
		if err != nil {
			return err
		}
		m.push(compare(in.Mnemonic, a, b))

	case OpCONJ:
		a, b, err := m.pop2()
		if err != nil {
			return err
		}
		m.push(boolValue(!a.isZero() && !b.isZero()))

	case OpDISJ:
		a, b, err := m.pop2()
		if err != nil {
			return err
		}
		m.push(boolValue(!a.isZero() || !b.isZero()))

	case OpNEGA:
		v, err := m.pop()
		if err != nil {
			return err
		}
		m.push(boolValue(v.isZero()))

	case OpINVR:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if v.IsReal {
			m.push(RealValue(-v.Real))
		} else {
			m.push(IntValue(-v.Int))
		}

	default:
		return fmt.Errorf("unknown mnemonic %q", in.Mnemonic)
	}
	return nil
}

// Run executes from the current PC until PARA, an error, or ctx is done.
func (m *Machine) Run(ctx context.Context) error {
	for !m.Halted {
		if m.Steps%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
