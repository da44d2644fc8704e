package resp

import "strconv"

// EncodeCommand serializes a command and its arguments as a flat array of
// bulk strings, the only shape the server accepts for client commands.
// The result is a complete frame ready to be written to the connection.
func EncodeCommand(args ...string) []byte {
	size := 16
	for _, arg := range args {
		size += len(arg) + 16
	}

	buf := make([]byte, 0, size)
	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, int64(len(args)), 10)
	buf = append(buf, '\r', '\n')
	for _, arg := range args {
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(arg)), 10)
		buf = append(buf, '\r', '\n')
		buf = append(buf, arg...)
		buf = append(buf, '\r', '\n')
	}
	return buf
}
