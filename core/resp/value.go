package resp

// Kind identifies which variant of the protocol a Value carries.
type Kind uint8

const (
	Invalid Kind = iota
	SimpleString
	Error
	Integer
	BulkString
	Array
	Null
	Boolean
	Push
)

// String returns a human-readable name for the kind, for logs and errors.
func (k Kind) String() string {
	switch k {
	case SimpleString:
		return "simple string"
	case Error:
		return "error"
	case Integer:
		return "integer"
	case BulkString:
		return "bulk string"
	case Array:
		return "array"
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Push:
		return "push"
	default:
		return "invalid"
	}
}

// Value is one decoded protocol frame. Exactly one payload field is
// meaningful, selected by Kind: Str for SimpleString, Error and BulkString,
// Int for Integer, Bool for Boolean, Elems for Array and Push.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Bool  bool
	Elems []Value
}

// Text returns the string content of the value if it is a simple or bulk
// string. The second return reports whether the value was string-shaped.
func (v Value) Text() (string, bool) {
	switch v.Kind {
	case SimpleString, BulkString:
		return v.Str, true
	default:
		return "", false
	}
}

// AsInt returns the numeric content of the value if it is an integer frame.
func (v Value) AsInt() (int64, bool) {
	if v.Kind != Integer {
		return 0, false
	}
	return v.Int, true
}

// IsNull reports whether the value is a null frame (RESP3 null or a RESP2
// nil bulk string / nil array).
func (v Value) IsNull() bool {
	return v.Kind == Null
}

// IsAggregate reports whether the value carries elements (array or push).
func (v Value) IsAggregate() bool {
	return v.Kind == Array || v.Kind == Push
}

// SimpleStringValue builds a simple string frame.
func SimpleStringValue(s string) Value {
	return Value{Kind: SimpleString, Str: s}
}

// BulkStringValue builds a bulk string frame.
func BulkStringValue(s string) Value {
	return Value{Kind: BulkString, Str: s}
}

// IntegerValue builds an integer frame.
func IntegerValue(n int64) Value {
	return Value{Kind: Integer, Int: n}
}

// ArrayValue builds an array frame from the given elements.
func ArrayValue(elems ...Value) Value {
	return Value{Kind: Array, Elems: elems}
}

// PushValue builds a RESP3 push frame from the given elements.
func PushValue(elems ...Value) Value {
	return Value{Kind: Push, Elems: elems}
}
