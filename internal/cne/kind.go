package cne

import (
	"fmt"
	"strings"
)

// Kind selects the hidden layer model of a weight-vector genotype.
type Kind string

const (
	KindFeedforward Kind = "feedforward"
	KindLSTM        Kind = "lstm"
	KindLSTMLite    Kind = "lstm_lite"
)

// Gate weight columns of an LSTM layer, per output unit.
const (
	lstmWi = iota
	lstmUi
	lstmBi
	lstmWf
	lstmUf
	lstmBf
	lstmWo
	lstmUo
	lstmBo
	lstmWc
	lstmUc
	lstmBc

	LSTMWeights
)

// Gate weight columns of an LSTM-lite layer, per output unit.
const (
	liteWg = iota
	liteUg
	liteBg
	liteWc

	LSTMLiteWeights
)

func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case KindFeedforward, "ff":
		return KindFeedforward, nil
	case KindLSTM:
		return KindLSTM, nil
	case KindLSTMLite, "lstm-lite":
		return KindLSTMLite, nil
	default:
		return "", fmt.Errorf("unsupported cne kind: %s", name)
	}
}

// GateWeights is the column count of the per-unit gate matrix, 0 for
// feedforward layers.
func (k Kind) GateWeights() int {
	switch k {
	case KindLSTM:
		return LSTMWeights
	case KindLSTMLite:
		return LSTMLiteWeights
	default:
		return 0
	}
}

func (k Kind) Recurrent() bool {
	return k.GateWeights() > 0
}
