package compiler

import (
	"errors"
	"fmt"
	"io"

	"lpdc/pkg/mepa"
)

var errFinalized = errors.New("instruction stream already finalized")

// Emitter appends MEPA instructions to w, one line per call, and hands out
// fresh labels. The first write error is kept and every later call becomes a
// no-op, so callers check Err once at the end.
type Emitter struct {
	w         io.Writer
	nextLabel int
	count     int
	finalized bool
	err       error
}

func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w, nextLabel: 1}
}

// Emit writes one instruction. label and params may be empty; at most two
// params are written.
func (e *Emitter) Emit(label, mnemonic string, params ...string) {
	if e.err != nil {
		return
	}
	if e.finalized {
		e.err = errFinalized
		return
	}
	in := mepa.Instruction{Label: label, Mnemonic: mnemonic, Params: params}
	if _, err := io.WriteString(e.w, in.String()+"\n"); err != nil {
		e.err = err
		return
	}
	e.count++
}

// NewLabel returns L1, L2, ... without emitting anything.
func (e *Emitter) NewLabel() string {
	l := fmt.Sprintf("L%d", e.nextLabel)
	e.nextLabel++
	return l
}

// Finalize writes the end marker. Only the first call has an effect.
func (e *Emitter) Finalize() {
	if e.err != nil || e.finalized {
		return
	}
	if _, err := io.WriteString(e.w, mepa.EndMarker+"\n"); err != nil {
		e.err = err
	}
	e.finalized = true
}

// Count returns how many instructions were written, the end marker excluded.
func (e *Emitter) Count() int {
	return e.count
}

// Labels returns how many labels were allocated.
func (e *Emitter) Labels() int {
	return e.nextLabel - 1
}

func (e *Emitter) Err() error {
	return e.err
}
