package cne

import (
	"fmt"

	"neurogen/internal/ann"
)

type layer interface {
	evaluate(inputs []float64)
	outputs() []float64
	resetState()
}

// Brain runs the layers of a weight-vector genotype in order. Recurrent
// layers keep their state across Evaluate calls until ResetState.
type Brain struct {
	inputs int
	layers []layer
}

func newBrain(g *Genotype) *Brain {
	if g.empty() {
		panic("cne: grow called on an empty genotype")
	}
	p := g.population
	b := &Brain{inputs: g.output.Inputs(), layers: make([]layer, 0, len(g.hidden)+1)}
	if len(g.hidden) > 0 {
		b.inputs = g.hidden[0].Inputs()
	}
	for _, gene := range g.hidden {
		b.layers = append(b.layers, newHiddenLayer(p.kind, gene, p.activation, p.gate))
	}
	b.layers = append(b.layers, newFeedforwardLayer(g.output, p.activation))
	return b
}

func newHiddenLayer(kind Kind, gene Gene, act, gate ann.ActivationFunc) layer {
	if want := kind.GateWeights(); gene.LW.Cols() != want || (want > 0 && gene.LW.Rows() != gene.Outputs()) {
		panic(fmt.Sprintf("cne: %s layer gate weights are %dx%d, want %dx%d",
			kind, gene.LW.Rows(), gene.LW.Cols(), gene.Outputs(), want))
	}
	switch kind {
	case KindLSTM:
		return newLSTMLayer(gene, act, gate)
	case KindLSTMLite:
		return newLSTMLiteLayer(gene, act, gate)
	default:
		return newFeedforwardLayer(gene, act)
	}
}

func (b *Brain) Evaluate(inputs []float64) []float64 {
	if len(inputs) != b.inputs {
		panic(fmt.Sprintf("cne brain expects %d inputs, got %d", b.inputs, len(inputs)))
	}
	values := inputs
	for _, l := range b.layers {
		l.evaluate(values)
		values = l.outputs()
	}
	return append([]float64(nil), values...)
}

func (b *Brain) ResetState() {
	for _, l := range b.layers {
		l.resetState()
	}
}

type feedforwardLayer struct {
	w      ann.Matrix
	act    ann.ActivationFunc
	values []float64
}

func newFeedforwardLayer(gene Gene, act ann.ActivationFunc) *feedforwardLayer {
	return &feedforwardLayer{w: gene.W, act: act, values: make([]float64, gene.Outputs())}
}

func (l *feedforwardLayer) evaluate(inputs []float64) {
	l.w.Project(inputs, l.values)
	for i, v := range l.values {
		l.values[i] = l.act(v)
	}
}

func (l *feedforwardLayer) outputs() []float64 { return l.values }

func (l *feedforwardLayer) resetState() {}

// lstmLayer is a full LSTM cell per unit. Gates read the projected input and
// the unit's previous output.
type lstmLayer struct {
	w, lw     ann.Matrix
	act, gate ann.ActivationFunc
	projected []float64
	cells     []float64
	values    []float64
}

func newLSTMLayer(gene Gene, act, gate ann.ActivationFunc) *lstmLayer {
	n := gene.Outputs()
	return &lstmLayer{
		w:         gene.W,
		lw:        gene.LW,
		act:       act,
		gate:      gate,
		projected: make([]float64, n),
		cells:     make([]float64, n),
		values:    make([]float64, n),
	}
}

func (l *lstmLayer) evaluate(inputs []float64) {
	l.w.Project(inputs, l.projected)
	for i, v := range l.projected {
		lw := l.lw.Row(i)
		prev := l.values[i]
		candidate := l.act(lw[lstmWc]*v + lw[lstmUc]*prev + lw[lstmBc])
		in := l.gate(lw[lstmWi]*v + lw[lstmUi]*prev + lw[lstmBi])
		forget := l.gate(lw[lstmWf]*v + lw[lstmUf]*prev + lw[lstmBf])
		out := l.gate(lw[lstmWo]*v + lw[lstmUo]*prev + lw[lstmBo])
		l.cells[i] = forget*l.cells[i] + in*candidate
		l.values[i] = out * l.act(l.cells[i])
	}
}

func (l *lstmLayer) outputs() []float64 { return l.values }

func (l *lstmLayer) resetState() {
	clear(l.cells)
	clear(l.values)
}

// lstmLiteLayer keeps only the cell value as state, updated through a single
// gate.
type lstmLiteLayer struct {
	w, lw     ann.Matrix
	act, gate ann.ActivationFunc
	projected []float64
	cells     []float64
}

func newLSTMLiteLayer(gene Gene, act, gate ann.ActivationFunc) *lstmLiteLayer {
	n := gene.Outputs()
	return &lstmLiteLayer{
		w:         gene.W,
		lw:        gene.LW,
		act:       act,
		gate:      gate,
		projected: make([]float64, n),
		cells:     make([]float64, n),
	}
}

func (l *lstmLiteLayer) evaluate(inputs []float64) {
	l.w.Project(inputs, l.projected)
	for i, v := range l.projected {
		lw := l.lw.Row(i)
		g := l.gate(lw[liteWg]*v + lw[liteUg]*l.cells[i] + lw[liteBg])
		c := l.act(lw[liteWc] * v)
		l.cells[i] = (1-g)*l.cells[i] + g*c
	}
}

func (l *lstmLiteLayer) outputs() []float64 { return l.cells }

func (l *lstmLiteLayer) resetState() {
	clear(l.cells)
}
