package compiler

import "fmt"

// Type is the closed set of LPD data types.
type Type int

const (
	TypeVoid Type = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeChar
)

var typeNames = [...]string{
	TypeVoid:  "void",
	TypeInt:   "int",
	TypeFloat: "float",
	TypeBool:  "bool",
	TypeChar:  "char",
}

func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// typeOf maps a type keyword to its Type.
func typeOf(tt TokenType) (Type, bool) {
	switch tt {
	case INT:
		return TypeInt, true
	case FLOAT:
		return TypeFloat, true
	case BOOL:
		return TypeBool, true
	case CHAR:
		return TypeChar, true
	case VOID:
		return TypeVoid, true
	}
	return TypeVoid, false
}

// Compatible reports whether a value of one type may meet the other in an
// assignment, comparison or arithmetic operator. Equal types always are; int
// and float widen into each other; nothing else mixes.
func Compatible(a, b Type) bool {
	if a == b {
		return true
	}
	return (a == TypeInt && b == TypeFloat) || (a == TypeFloat && b == TypeInt)
}

// arithmeticResult is the type of +, - , * and / over compatible operands.
func arithmeticResult(a, b Type) Type {
	if a == TypeFloat || b == TypeFloat {
		return TypeFloat
	}
	return a
}
