package resp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// maxNestingDepth bounds recursion while decoding aggregate frames so a
// hostile peer cannot exhaust the stack with deeply nested arrays.
const maxNestingDepth = 32

// Reader decodes protocol frames from an underlying byte stream.
// It is not safe for concurrent use; the connection layer guarantees a
// single reader per stream.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r with buffering suitable for frame decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadValue decodes and returns the next frame from the stream. It blocks
// until a full frame is available or the underlying reader fails.
// Wire-format violations are reported wrapped in ErrProtocol; errors from
// the underlying reader are passed through unchanged.
func (r *Reader) ReadValue() (Value, error) {
	return r.readValue(0)
}

func (r *Reader) readValue(depth int) (Value, error) {
	if depth > maxNestingDepth {
		return Value{}, ErrNestingTooDeep
	}

	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}
	if len(line) == 0 {
		return Value{}, fmt.Errorf("%w: empty frame header", ErrProtocol)
	}

	marker, rest := line[0], line[1:]
	switch marker {
	case '+':
		return Value{Kind: SimpleString, Str: string(rest)}, nil
	case '-':
		return Value{Kind: Error, Str: string(rest)}, nil
	case ':':
		n, err := parseInt(rest)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: Integer, Int: n}, nil
	case '$':
		return r.readBulkString(rest)
	case '*', '>':
		kind := Array
		if marker == '>' {
			kind = Push
		}
		return r.readAggregate(kind, rest, depth)
	case '_':
		if len(rest) != 0 {
			return Value{}, fmt.Errorf("%w: null frame with payload", ErrProtocol)
		}
		return Value{Kind: Null}, nil
	case '#':
		switch string(rest) {
		case "t":
			return Value{Kind: Boolean, Bool: true}, nil
		case "f":
			return Value{Kind: Boolean, Bool: false}, nil
		default:
			return Value{}, fmt.Errorf("%w: invalid boolean %q", ErrProtocol, rest)
		}
	default:
		return Value{}, fmt.Errorf("%w: unknown frame marker %q", ErrProtocol, marker)
	}
}

func (r *Reader) readBulkString(header []byte) (Value, error) {
	n, err := parseInt(header)
	if err != nil {
		return Value{}, err
	}
	if n == -1 {
		// RESP2 nil bulk string.
		return Value{Kind: Null}, nil
	}
	if n < 0 {
		return Value{}, fmt.Errorf("%w: negative bulk string length %d", ErrProtocol, n)
	}

	buf := make([]byte, n+2)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		return Value{}, err
	}
	if buf[n] != '\r' || buf[n+1] != '\n' {
		return Value{}, fmt.Errorf("%w: bulk string missing terminator", ErrProtocol)
	}
	return Value{Kind: BulkString, Str: string(buf[:n])}, nil
}

func (r *Reader) readAggregate(kind Kind, header []byte, depth int) (Value, error) {
	n, err := parseInt(header)
	if err != nil {
		return Value{}, err
	}
	if n == -1 {
		// RESP2 nil array.
		return Value{Kind: Null}, nil
	}
	if n < 0 {
		return Value{}, fmt.Errorf("%w: negative aggregate length %d", ErrProtocol, n)
	}

	elems := make([]Value, 0, n)
	for range n {
		elem, err := r.readValue(depth + 1)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}
	return Value{Kind: kind, Elems: elems}, nil
}

// readLine reads up to the next CRLF and returns the line without it.
func (r *Reader) readLine() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return nil, fmt.Errorf("%w: line missing CRLF terminator", ErrProtocol)
	}
	return line[:len(line)-2], nil
}

func parseInt(b []byte) (int64, error) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid integer %q", ErrProtocol, b)
	}
	return n, nil
}
