package cgp

import (
	"fmt"
	"math"
	"strings"
)

// FunctionID identifies a computation primitive of the graph encoding.
// The numeric values are part of the persisted genotype format.
type FunctionID int

const (
	FnConstZero FunctionID = iota
	FnConstOne
	FnConstTwo
	FnConstMinusOne
	FnConstHalf
	FnConstPi
	FnIdentity
	FnAdd
	FnSubtract
	FnMultiply
	FnDivide
	FnNegate
	FnAbs
	FnMin
	FnMax
	FnAverage
	FnSin
	FnCos
	FnTanh
	FnLogistic
	FnSquare
	FnSqrt
	FnGreater
	FnLess
	FnAnd
	FnOr
	FnNot
	FnClamp

	// FunctionCount is the size of the primitive catalogue.
	FunctionCount
)

// MaxArity is the number of connections every function gene carries.
const MaxArity = 2

type functionSpec struct {
	name  string
	arity int
	eval  func(a, b float64) float64
}

func truth(v float64) bool {
	return v > 0
}

func boolValue(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

var functionTable = [FunctionCount]functionSpec{
	FnConstZero:     {"const_0", 0, func(_, _ float64) float64 { return 0 }},
	FnConstOne:      {"const_1", 0, func(_, _ float64) float64 { return 1 }},
	FnConstTwo:      {"const_2", 0, func(_, _ float64) float64 { return 2 }},
	FnConstMinusOne: {"const_-1", 0, func(_, _ float64) float64 { return -1 }},
	FnConstHalf:     {"const_0.5", 0, func(_, _ float64) float64 { return 0.5 }},
	FnConstPi:       {"const_pi", 0, func(_, _ float64) float64 { return math.Pi }},
	FnIdentity:      {"identity", 1, func(a, _ float64) float64 { return a }},
	FnAdd:           {"add", 2, func(a, b float64) float64 { return a + b }},
	FnSubtract:      {"subtract", 2, func(a, b float64) float64 { return a - b }},
	FnMultiply:      {"multiply", 2, func(a, b float64) float64 { return a * b }},
	FnDivide: {"divide", 2, func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	}},
	FnNegate:   {"negate", 1, func(a, _ float64) float64 { return -a }},
	FnAbs:      {"abs", 1, func(a, _ float64) float64 { return math.Abs(a) }},
	FnMin:      {"min", 2, func(a, b float64) float64 { return math.Min(a, b) }},
	FnMax:      {"max", 2, func(a, b float64) float64 { return math.Max(a, b) }},
	FnAverage:  {"average", 2, func(a, b float64) float64 { return (a + b) / 2 }},
	FnSin:      {"sin", 1, func(a, _ float64) float64 { return math.Sin(a) }},
	FnCos:      {"cos", 1, func(a, _ float64) float64 { return math.Cos(a) }},
	FnTanh:     {"tanh", 1, func(a, _ float64) float64 { return math.Tanh(a) }},
	FnLogistic: {"logistic", 1, func(a, _ float64) float64 { return 1 / (1 + math.Exp(-a)) }},
	FnSquare:   {"square", 1, func(a, _ float64) float64 { return a * a }},
	FnSqrt:     {"sqrt", 1, func(a, _ float64) float64 { return math.Sqrt(math.Abs(a)) }},
	FnGreater:  {"greater", 2, func(a, b float64) float64 { return boolValue(a > b) }},
	FnLess:     {"less", 2, func(a, b float64) float64 { return boolValue(a < b) }},
	FnAnd:      {"and", 2, func(a, b float64) float64 { return boolValue(truth(a) && truth(b)) }},
	FnOr:       {"or", 2, func(a, b float64) float64 { return boolValue(truth(a) || truth(b)) }},
	FnNot:      {"not", 1, func(a, _ float64) float64 { return boolValue(!truth(a)) }},
	FnClamp:    {"clamp", 1, func(a, _ float64) float64 { return math.Max(-1, math.Min(1, a)) }},
}

func (f FunctionID) Valid() bool {
	return f >= 0 && f < FunctionCount
}

func (f FunctionID) String() string {
	if !f.Valid() {
		return fmt.Sprintf("FunctionID(%d)", int(f))
	}
	return functionTable[f].name
}

// Arity is the number of leading connections the function reads.
func (f FunctionID) Arity() int {
	return functionTable[f].arity
}

func (f FunctionID) Apply(a, b float64) float64 {
	return functionTable[f].eval(a, b)
}

func ParseFunction(name string) (FunctionID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id := FunctionID(0); id < FunctionCount; id++ {
		if functionTable[id].name == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown function %q", ErrInvalidFunction, name)
}

// ParseFunctions resolves a list of primitive names.
func ParseFunctions(names []string) ([]FunctionID, error) {
	out := make([]FunctionID, 0, len(names))
	for _, name := range names {
		id, err := ParseFunction(name)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// AllFunctions returns the full catalogue in id order.
func AllFunctions() []FunctionID {
	out := make([]FunctionID, FunctionCount)
	for i := range out {
		out[i] = FunctionID(i)
	}
	return out
}

// FunctionCatalog is implemented by domains that restrict the primitives
// available to graph genotypes.
type FunctionCatalog interface {
	AvailableFunctions() []FunctionID
}
