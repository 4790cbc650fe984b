package neatbird

import (
	"encoding/json"
	"fmt"
	"io"
)

// Observation is the controller input: the bird height and its distances to
// the lead gap's top and bottom edges, in that order.
type Observation [3]float64

// Slice returns the observation as a fresh slice.
func (o Observation) Slice() []float64 {
	return []float64{o[0], o[1], o[2]}
}

// Jumper decides, once per tick, whether a bird jumps.
type Jumper interface {
	Jump(Observation) (bool, error)
}

// InputJumper is driven by human input. Press latches a jump request and the
// next Jump consumes it, so a held key never jumps twice. It is not safe for
// concurrent use; the frontend presses and steps from the same goroutine.
type InputJumper struct {
	pressed bool
}

func (j *InputJumper) Press() {
	j.pressed = true
}

func (j *InputJumper) Jump(_ Observation) (bool, error) {
	jump := j.pressed
	j.pressed = false
	return jump, nil
}

// TraceJumper records every decision of the wrapped jumper as a JSON line.
type TraceJumper struct {
	Jumper Jumper
	Out    io.Writer
}

func (t TraceJumper) Jump(in Observation) (bool, error) {
	out, err := t.Jumper.Jump(in)
	if err != nil {
		return false, err
	}
	data := Trace{
		In:  in.Slice(),
		Out: out,
	}
	if err := json.NewEncoder(t.Out).Encode(data); err != nil {
		return out, fmt.Errorf("logging the decision: %w", err)
	}
	return out, nil
}

type Trace struct {
	In  []float64
	Out bool
}

// JumperFunc adapts a plain function.
type JumperFunc func(Observation) (bool, error)

func (f JumperFunc) Jump(in Observation) (bool, error) {
	return f(in)
}
