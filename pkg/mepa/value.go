package mepa

import (
	"strconv"
	"strings"
)

// Value is one stack cell. Integers and reals share the stack; an arithmetic
// instruction produces a real as soon as either operand is one.
type Value struct {
	Int    int64
	Real   float64
	IsReal bool
}

func IntValue(i int64) Value {
	return Value{Int: i}
}

func RealValue(f float64) Value {
	return Value{Real: f, IsReal: true}
}

func boolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

// ParseValue reads a constant the way CRCT and LEIT spell it: a decimal
// integer, or a real when the text carries a '.' or an exponent.
func ParseValue(s string) (Value, error) {
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, err
		}
		return RealValue(f), nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}, err
	}
	return IntValue(i), nil
}

func (v Value) float() float64 {
	if v.IsReal {
		return v.Real
	}
	return float64(v.Int)
}

func (v Value) isZero() bool {
	if v.IsReal {
		return v.Real == 0
	}
	return v.Int == 0
}

func (v Value) String() string {
	if v.IsReal {
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	}
	return strconv.FormatInt(v.Int, 10)
}
