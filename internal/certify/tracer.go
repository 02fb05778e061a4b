package certify

import (
	"fmt"
	"io"

	"github.com/go-solvent/solvent/internal/derivation"
	"github.com/go-solvent/solvent/pkg/solvent"
)

// StepPosition describes one checked conflict step.
type StepPosition interface {
	Step() derivation.Step
	Parents() []*solvent.Incompatibility
	Entailed() bool
}

type Tracer interface {
	Trace(p StepPosition)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ StepPosition) {
}

type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(p StepPosition) {
	status := "entailed"
	if !p.Entailed() {
		status = "NOT ENTAILED"
	}
	fmt.Fprintf(t.Writer, "---\nStep %s: %s\nParents:\n", p.Step().ID, status)
	for _, parent := range p.Parents() {
		fmt.Fprintf(t.Writer, "- %s\n", parent)
	}
	fmt.Fprintf(t.Writer, "Conclusion:\n- %s\n", p.Step().Incompatibility)
}

type stepPosition struct {
	step     derivation.Step
	cause    solvent.ConflictCause
	entailed bool
}

func (p stepPosition) Step() derivation.Step {
	return p.step
}

func (p stepPosition) Parents() []*solvent.Incompatibility {
	return []*solvent.Incompatibility{p.cause.Conflict, p.cause.Other}
}

func (p stepPosition) Entailed() bool {
	return p.entailed
}
