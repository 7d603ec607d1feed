// Package errs defines the error values returned by the msyt packages.
//
// Every error belongs to exactly one of three kinds:
//
//   - ErrFormat: the binary container is malformed.
//   - ErrSchema: a mapping, JSON or YAML document does not have the expected shape.
//   - ErrEncode: the model violates an invariant that only matters when writing.
//
// Specific errors wrap their kind, so callers can test either level:
//
//	if errors.Is(err, errs.ErrFormat) { ... }
//	if errors.Is(err, errs.ErrTruncatedBlock) { ... }
package errs

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrFormat = errors.New("malformed container")
	ErrSchema = errors.New("invalid document")
	ErrEncode = errors.New("cannot encode")
)

// Format errors.
var (
	ErrInvalidSignature      = fmt.Errorf("%w: invalid signature", ErrFormat)
	ErrInvalidByteOrderMark  = fmt.Errorf("%w: invalid byte order mark", ErrFormat)
	ErrInvalidHeaderSize     = fmt.Errorf("%w: truncated header", ErrFormat)
	ErrUnsupportedEncoding   = fmt.Errorf("%w: unsupported text encoding", ErrFormat)
	ErrFileSizeMismatch      = fmt.Errorf("%w: file size mismatch", ErrFormat)
	ErrTruncatedBlock        = fmt.Errorf("%w: truncated block", ErrFormat)
	ErrInvalidPadding        = fmt.Errorf("%w: invalid block padding", ErrFormat)
	ErrTrailingData          = fmt.Errorf("%w: trailing data after last block", ErrFormat)
	ErrMissingBlock          = fmt.Errorf("%w: missing required block", ErrFormat)
	ErrDuplicateBlock        = fmt.Errorf("%w: duplicate block", ErrFormat)
	ErrInvalidLabelTable     = fmt.Errorf("%w: invalid label table", ErrFormat)
	ErrLabelConflict         = fmt.Errorf("%w: conflicting label table entries", ErrFormat)
	ErrIndexOutOfRange       = fmt.Errorf("%w: entry index out of range", ErrFormat)
	ErrInvalidAttributeTable = fmt.Errorf("%w: invalid attribute table", ErrFormat)
	ErrInvalidStyleTable     = fmt.Errorf("%w: invalid style table", ErrFormat)
	ErrInvalidTextTable      = fmt.Errorf("%w: invalid text table", ErrFormat)
	ErrUnterminatedString    = fmt.Errorf("%w: unterminated string", ErrFormat)
	ErrTruncatedTag          = fmt.Errorf("%w: truncated control tag", ErrFormat)
	ErrInvalidText           = fmt.Errorf("%w: invalid text encoding", ErrFormat)
	ErrCorruptWrapper        = fmt.Errorf("%w: corrupt compressed wrapper", ErrFormat)
)

// Schema errors.
var (
	ErrInvalidDocument = fmt.Errorf("%w: unparsable document", ErrSchema)
	ErrMissingField    = fmt.Errorf("%w: missing field", ErrSchema)
	ErrUnknownField    = fmt.Errorf("%w: unknown field", ErrSchema)
	ErrInvalidField    = fmt.Errorf("%w: invalid field value", ErrSchema)
)

// Encode errors.
var (
	ErrDuplicateLabel        = fmt.Errorf("%w: duplicate label", ErrEncode)
	ErrInvalidLabel          = fmt.Errorf("%w: invalid label", ErrEncode)
	ErrLabelNotFound         = fmt.Errorf("%w: label not found", ErrEncode)
	ErrAttributeSizeMismatch = fmt.Errorf("%w: attribute size mismatch", ErrEncode)
	ErrUnexpectedAttributes  = fmt.Errorf("%w: attributes without attribute block", ErrEncode)
	ErrOffsetOverflow        = fmt.Errorf("%w: offset overflow", ErrEncode)
	ErrParamsTooLarge        = fmt.Errorf("%w: tag parameters too large", ErrEncode)
	ErrInvalidTextRun        = fmt.Errorf("%w: text run cannot be encoded", ErrEncode)
	ErrInvalidToken          = fmt.Errorf("%w: invalid token", ErrEncode)
	ErrInvalidMagic          = fmt.Errorf("%w: invalid block magic", ErrEncode)
	ErrTooManyBlocks         = fmt.Errorf("%w: too many blocks", ErrEncode)
	ErrInvalidBucketCount    = fmt.Errorf("%w: invalid label bucket count", ErrEncode)
	ErrInvalidLayout         = fmt.Errorf("%w: invalid block layout", ErrEncode)
	ErrPositionOutOfRange    = fmt.Errorf("%w: entry position out of range", ErrEncode)
	ErrInvalidOption         = fmt.Errorf("%w: invalid model option", ErrEncode)
)

// Kind returns the kind sentinel (ErrFormat, ErrSchema or ErrEncode) that err
// belongs to, or nil when err is nil or foreign to this module.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrFormat):
		return ErrFormat
	case errors.Is(err, ErrSchema):
		return ErrSchema
	case errors.Is(err, ErrEncode):
		return ErrEncode
	default:
		return nil
	}
}
