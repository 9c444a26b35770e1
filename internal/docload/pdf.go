package docload

import (
	"bytes"
	"compress/zlib"
	"io"
	"strings"
)

// readPDF pulls text out of a PDF without building a full object model: it
// locates content streams, inflates them when FlateDecode-compressed, and
// replays the text-showing operators. Layout operators that move the text
// cursor to a new line become line breaks, which is exactly the signal the
// extraction engine needs. Damaged or unsupported streams are skipped.
//
// This is deliberately not a layout-aware renderer; multi-column documents
// and exotic encodings degrade to whatever linear text is recoverable.
func readPDF(data []byte) []string {
	var segments []string
	for _, raw := range contentStreams(data) {
		content := raw
		if inflated, err := inflate(raw); err == nil {
			content = inflated
		}
		if !bytes.Contains(content, []byte("BT")) {
			continue
		}
		if txt := replayTextOperators(content); strings.TrimSpace(txt) != "" {
			segments = append(segments, txt)
		}
	}
	return segments
}

// maxStreamBytes bounds how much a single decompressed stream may expand to,
// guarding against zip-bomb style inputs.
const maxStreamBytes = 8 << 20

var (
	streamStart = []byte("stream")
	streamEnd   = []byte("endstream")
)

// contentStreams returns the raw byte ranges between stream/endstream
// keywords, in document order.
func contentStreams(data []byte) [][]byte {
	var out [][]byte
	pos := 0
	for {
		i := bytes.Index(data[pos:], streamStart)
		if i < 0 {
			return out
		}
		start := pos + i + len(streamStart)
		// The keyword is followed by CRLF or LF before the data begins.
		if start < len(data) && data[start] == '\r' {
			start++
		}
		if start < len(data) && data[start] == '\n' {
			start++
		}
		j := bytes.Index(data[start:], streamEnd)
		if j < 0 {
			return out
		}
		out = append(out, data[start:start+j])
		pos = start + j + len(streamEnd)
	}
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxStreamBytes))
}

// replayTextOperators walks a content stream and concatenates the string
// operands of Tj/TJ/'/" show operators. Td, TD, T* and ET mark line
// boundaries.
func replayTextOperators(b []byte) string {
	var out strings.Builder
	var pending []string

	flush := func() {
		for _, s := range pending {
			out.WriteString(s)
		}
		pending = pending[:0]
	}

	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c == '(':
			s, next := readLiteralString(b, i)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < len(b) && b[i+1] != '<':
			s, next := readHexString(b, i)
			pending = append(pending, s)
			i = next
		case c == '%':
			for i < len(b) && b[i] != '\n' && b[i] != '\r' {
				i++
			}
		case c == '[' || c == ']' || c == '{' || c == '}' || c == '/' || c <= ' ':
			i++
		case c == '<': // dictionary open <<
			i += 2
		case c == '>': // dictionary close >>
			i += 2
		default:
			tok, next := readOperatorToken(b, i)
			switch tok {
			case "Tj", "TJ":
				flush()
			case "'", "\"":
				out.WriteByte('\n')
				flush()
			case "Td", "TD", "T*":
				out.WriteByte('\n')
				pending = pending[:0]
			case "BT", "ET":
				out.WriteByte('\n')
				pending = pending[:0]
			}
			i = next
		}
	}
	return out.String()
}

func readOperatorToken(b []byte, i int) (string, int) {
	start := i
	for i < len(b) {
		c := b[i]
		if c <= ' ' || c == '(' || c == '<' || c == '[' || c == ']' || c == '/' || c == '%' || c == '{' || c == '}' || c == ')' || c == '>' {
			break
		}
		i++
	}
	if i == start {
		return "", i + 1
	}
	return string(b[start:i]), i
}

// readLiteralString decodes a parenthesis string starting at b[i] == '('.
// It honors nested parentheses and backslash escapes including octal codes.
func readLiteralString(b []byte, i int) (string, int) {
	var sb strings.Builder
	depth := 0
	i++ // consume '('
	depth++
	for i < len(b) {
		c := b[i]
		switch c {
		case '\\':
			if i+1 >= len(b) {
				return sb.String(), i + 1
			}
			e := b[i+1]
			switch e {
			case 'n':
				sb.WriteByte('\n')
				i += 2
			case 'r':
				sb.WriteByte('\r')
				i += 2
			case 't':
				sb.WriteByte('\t')
				i += 2
			case 'b', 'f':
				i += 2
			case '(', ')', '\\':
				sb.WriteByte(e)
				i += 2
			case '\n':
				i += 2 // line continuation
			case '\r':
				i += 2
				if i < len(b) && b[i] == '\n' {
					i++
				}
			default:
				if e >= '0' && e <= '7' {
					code, n := 0, 0
					i++
					for n < 3 && i < len(b) && b[i] >= '0' && b[i] <= '7' {
						code = code*8 + int(b[i]-'0')
						i++
						n++
					}
					sb.WriteByte(byte(code))
				} else {
					sb.WriteByte(e)
					i += 2
				}
			}
		case '(':
			depth++
			sb.WriteByte(c)
			i++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), i
}

// readHexString decodes a <...> hex string starting at b[i] == '<'.
func readHexString(b []byte, i int) (string, int) {
	var sb strings.Builder
	i++ // consume '<'
	var hi byte
	haveHi := false
	for i < len(b) && b[i] != '>' {
		c := b[i]
		v, ok := hexVal(c)
		if ok {
			if haveHi {
				sb.WriteByte(hi<<4 | v)
				haveHi = false
			} else {
				hi = v
				haveHi = true
			}
		}
		i++
	}
	if haveHi {
		// Odd digit count implies a trailing zero nibble.
		sb.WriteByte(hi << 4)
	}
	if i < len(b) {
		i++ // consume '>'
	}
	return sb.String(), i
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
