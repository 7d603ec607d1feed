package encoding

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/arloliu/msyt/endian"
	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/format"
	"github.com/arloliu/msyt/internal/pool"
)

// Control code markers.
const (
	MarkerTag    = 0x0E // MarkerTag starts a tag record.
	MarkerEndTag = 0x0F // MarkerEndTag starts an end tag record.
)

// MaxParamsSize is the largest parameter block a tag can carry.
const MaxParamsSize = math.MaxUint16

// Tokenize splits the raw code units of one text entry, terminator excluded,
// into tokens. Adjacent text is merged into a single text token; an empty run
// yields no tokens. Tag params are copied out of raw.
//
// Returns:
//   - errs.ErrTruncatedTag if a tag record extends past the end of raw
//   - errs.ErrInvalidText if a text run holds an unpaired UTF-16 surrogate or
//     invalid UTF-8, or a stray byte is left after the last tag
func Tokenize(raw []byte, engine endian.EndianEngine, enc format.TextEncoding) ([]Token, error) {
	t := tokenizer{raw: raw, engine: engine, unit: enc.UnitSize()}

	return t.run()
}

type tokenizer struct {
	raw    []byte
	engine endian.EndianEngine
	unit   int
	tokens []Token
}

func (t *tokenizer) run() ([]Token, error) {
	pos, textStart := 0, 0

	for pos < len(t.raw) {
		if len(t.raw)-pos < t.unit {
			return nil, fmt.Errorf("%w: stray byte at offset %d", errs.ErrInvalidText, pos)
		}

		marker := t.unitAt(pos)
		if marker != MarkerTag && marker != MarkerEndTag {
			pos += t.unit
			continue
		}

		if err := t.flushText(textStart, pos); err != nil {
			return nil, err
		}

		n, err := t.control(pos, marker)
		if err != nil {
			return nil, err
		}
		pos += n
		textStart = pos
	}

	if err := t.flushText(textStart, pos); err != nil {
		return nil, err
	}

	return t.tokens, nil
}

func (t *tokenizer) unitAt(pos int) uint16 {
	if t.unit == 2 {
		return t.engine.Uint16(t.raw[pos:])
	}

	return uint16(t.raw[pos])
}

// control parses the record starting at pos and returns its length in bytes.
func (t *tokenizer) control(pos int, marker uint16) (int, error) {
	fields := 4
	if marker == MarkerTag {
		fields = 6
	}

	p := pos + t.unit
	if len(t.raw)-p < fields {
		return 0, fmt.Errorf("%w: record at offset %d needs %d header bytes, %d left",
			errs.ErrTruncatedTag, pos, fields, len(t.raw)-p)
	}

	group := t.engine.Uint16(t.raw[p:])
	typ := t.engine.Uint16(t.raw[p+2:])

	if marker == MarkerEndTag {
		t.tokens = append(t.tokens, EndTag(group, typ))
		return t.unit + fields, nil
	}

	size := int(t.engine.Uint16(t.raw[p+4:]))
	p += fields
	if len(t.raw)-p < size {
		return 0, fmt.Errorf("%w: tag %d.%d at offset %d declares %d parameter bytes, %d left",
			errs.ErrTruncatedTag, group, typ, pos, size, len(t.raw)-p)
	}

	params := make([]byte, size)
	copy(params, t.raw[p:p+size])
	t.tokens = append(t.tokens, Tag(group, typ, params))

	return t.unit + fields + size, nil
}

func (t *tokenizer) flushText(start, end int) error {
	if start >= end {
		return nil
	}

	var (
		s   string
		err error
	)
	if t.unit == 2 {
		s, err = decodeUTF16(t.raw[start:end], t.engine)
	} else {
		s, err = decodeUTF8(t.raw[start:end])
	}
	if err != nil {
		return fmt.Errorf("%w at offset %d", err, start)
	}

	t.tokens = append(t.tokens, Text(s))

	return nil
}

func decodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: invalid UTF-8", errs.ErrInvalidText)
	}

	return string(b), nil
}

func decodeUTF16(b []byte, engine endian.EndianEngine) (string, error) {
	for i := 0; i < len(b); i += 2 {
		u := engine.Uint16(b[i:])
		switch {
		case isHighSurrogate(u):
			if i+4 > len(b) || !isLowSurrogate(engine.Uint16(b[i+2:])) {
				return "", fmt.Errorf("%w: unpaired surrogate 0x%04X", errs.ErrInvalidText, u)
			}
			i += 2
		case isLowSurrogate(u):
			return "", fmt.Errorf("%w: unpaired surrogate 0x%04X", errs.ErrInvalidText, u)
		}
	}

	s, err := unicode.UTF16(utf16Order(engine), unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrInvalidText, err)
	}

	return string(s), nil
}

func isHighSurrogate(u uint16) bool { return u >= 0xD800 && u <= 0xDBFF }
func isLowSurrogate(u uint16) bool  { return u >= 0xDC00 && u <= 0xDFFF }

// utf16Order returns the x/text byte order matching engine.
func utf16Order(engine endian.EndianEngine) unicode.Endianness {
	if endian.IsBigEndian(engine) {
		return unicode.BigEndian
	}

	return unicode.LittleEndian
}

// Detokenize serializes tokens into the raw code units of one text entry,
// terminator excluded. It is the inverse of Tokenize.
//
// Returns:
//   - errs.ErrInvalidTextRun if a text token is not valid UTF-8 or contains a
//     control code marker character
//   - errs.ErrParamsTooLarge if a tag carries more than MaxParamsSize bytes
//   - errs.ErrInvalidToken if a token has an unknown kind
func Detokenize(tokens []Token, engine endian.EndianEngine, enc format.TextEncoding) ([]byte, error) {
	buf := pool.GetTextBuffer()
	defer pool.PutTextBuffer(buf)

	unit := enc.UnitSize()
	writeMarker := func(marker uint16) {
		if unit == 2 {
			buf.WriteUint16(engine, marker)
		} else {
			_ = buf.WriteByte(byte(marker))
		}
	}

	for i, tok := range tokens {
		switch tok.Kind {
		case KindText:
			if err := appendText(buf, tok.Text, engine, unit); err != nil {
				return nil, fmt.Errorf("token %d: %w", i, err)
			}
		case KindTag:
			if len(tok.Params) > MaxParamsSize {
				return nil, fmt.Errorf("%w: token %d carries %d bytes, limit is %d",
					errs.ErrParamsTooLarge, i, len(tok.Params), MaxParamsSize)
			}
			writeMarker(MarkerTag)
			buf.WriteUint16(engine, tok.Group)
			buf.WriteUint16(engine, tok.Type)
			buf.WriteUint16(engine, uint16(len(tok.Params))) //nolint:gosec
			buf.MustWrite(tok.Params)
		case KindEndTag:
			writeMarker(MarkerEndTag)
			buf.WriteUint16(engine, tok.Group)
			buf.WriteUint16(engine, tok.Type)
		default:
			return nil, fmt.Errorf("%w: token %d has kind %s", errs.ErrInvalidToken, i, tok.Kind)
		}
	}

	return buf.Clone(), nil
}

func appendText(buf *pool.ByteBuffer, s string, engine endian.EndianEngine, unit int) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8 in %q", errs.ErrInvalidTextRun, s)
	}
	if strings.ContainsAny(s, "\x0e\x0f") {
		return fmt.Errorf("%w: %q contains a control code marker", errs.ErrInvalidTextRun, s)
	}

	if unit == 1 {
		buf.WriteString(s)
		return nil
	}

	encoded, err := unicode.UTF16(utf16Order(engine), unicode.IgnoreBOM).NewEncoder().String(s)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidTextRun, err)
	}
	buf.WriteString(encoded)

	return nil
}
