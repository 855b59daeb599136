package movie

import (
	"math"
	"strconv"
)

// Num is a nullable number. The zero value is missing.
type Num struct {
	Value float64
	Valid bool
}

// Some returns a present Num.
func Some(v float64) Num { return Num{Value: v, Valid: true} }

// Missing is the absent value.
var Missing = Num{}

// Positive reports whether n is present and > 0.
func (n Num) Positive() bool { return n.Valid && n.Value > 0 }

// String formats n compactly; missing prints as "".
func (n Num) String() string {
	if !n.Valid {
		return ""
	}
	if n.Value == math.Trunc(n.Value) && math.Abs(n.Value) < 1e15 {
		return strconv.FormatFloat(n.Value, 'f', 0, 64)
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// NullInt is a nullable integer, used for years.
type NullInt struct {
	Value int
	Valid bool
}

// SomeInt returns a present NullInt.
func SomeInt(v int) NullInt { return NullInt{Value: v, Valid: true} }

func (n NullInt) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.Itoa(n.Value)
}
