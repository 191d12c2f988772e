package result

import (
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds. The set is closed: every
// consumer (exporters, the HTTP layer) switches over it exhaustively, with
// KindOther as the explicit fallback for driver types we do not model.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInt
	KindFloat
	KindBool
	KindDate
	KindDateTime
	KindBytes
	KindOther // raw textual representation of an unmodelled driver type
)

// Canonical textual formats for temporal values.
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)

// Value is one cell of a result row: a tagged union over the types a
// relational driver can return. Values are immutable after construction.
type Value struct {
	kind Kind
	str  string // KindText, KindOther
	i    int64
	f    float64
	b    bool
	t    time.Time
	raw  []byte
}

func Null() Value               { return Value{kind: KindNull} }
func Text(s string) Value       { return Value{kind: KindText, str: s} }
func Int(i int64) Value         { return Value{kind: KindInt, i: i} }
func Float(f float64) Value     { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Date(t time.Time) Value    { return Value{kind: KindDate, t: t} }
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }
func Bytes(b []byte) Value      { return Value{kind: KindBytes, raw: b} }
func Other(s string) Value      { return Value{kind: KindOther, str: s} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Int64() int64     { return v.i }
func (v Value) Float64() float64 { return v.f }
func (v Value) Bool() bool       { return v.b }
func (v Value) Time() time.Time  { return v.t }
func (v Value) Raw() []byte      { return v.raw }

// Display returns the plain textual form of the value. Null renders as the
// empty string, which makes Display directly usable as a CSV field.
func (v Value) Display() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindText, KindOther:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(DateFormat)
	case KindDateTime:
		return v.t.Format(DateTimeFormat)
	case KindBytes:
		return string(v.raw)
	default:
		return ""
	}
}

// Native returns the value as the closest Go-native type: nil for Null,
// int64/float64/bool for numerics, and strings for everything else.
// Spreadsheet and JSON encoders use this to pick the target cell type.
func (v Value) Native() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return v.Display()
	}
}
