// Package resp implements the Redis serialization protocol (RESP2/RESP3)
// value model and framing used by the pub/sub connection layer.
//
// The package is deliberately small: it decodes one inbound frame at a time
// into a generic Value tree and encodes outbound commands as arrays of bulk
// strings. Higher-level interpretation of frames (for example, turning a
// push frame into a pub/sub event) belongs to the consumers of this package.
//
// # Values
//
// A Value is a tagged representation of a single protocol frame:
//
//	v, err := reader.ReadValue()
//	if err != nil {
//	    return err
//	}
//	if s, ok := v.Text(); ok {
//	    fmt.Println("server said:", s)
//	}
//
// Aggregate frames (arrays and RESP3 push frames) carry their elements in
// Value.Elems; scalar frames populate Str, Int, or Bool depending on Kind.
//
// # Reading
//
// Reader wraps an io.Reader with buffering and decodes frames one by one:
//
//	r := resp.NewReader(conn)
//	for {
//	    v, err := r.ReadValue()
//	    if err != nil {
//	        return err
//	    }
//	    handle(v)
//	}
//
// Malformed input fails with an error wrapping ErrProtocol; the reader makes
// no attempt to resynchronize a corrupted stream.
//
// # Writing
//
// Commands are always flat arrays of bulk strings, so encoding is a single
// function:
//
//	payload := resp.EncodeCommand("SUBSCRIBE", "news", "alerts")
//	_, err := conn.Write(payload)
package resp
