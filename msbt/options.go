package msbt

import (
	"fmt"

	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/format"
	"github.com/arloliu/msyt/internal/options"
	"github.com/arloliu/msyt/section"
)

// encodeConfig holds the per-call settings of Model.Encode.
type encodeConfig struct {
	order      format.ByteOrder
	buckets    uint32
	bucketsSet bool
}

// EncodeOption configures a single Model.Encode call.
type EncodeOption = options.Option[*encodeConfig]

// WithLittleEndian encodes the container in little-endian byte order.
func WithLittleEndian() EncodeOption {
	return options.NoError(func(c *encodeConfig) {
		c.order = format.LittleEndian
	})
}

// WithBigEndian encodes the container in big-endian byte order.
func WithBigEndian() EncodeOption {
	return options.NoError(func(c *encodeConfig) {
		c.order = format.BigEndian
	})
}

// WithLabelBuckets overrides the bucket count of the label hash table.
//
// Returns errs.ErrInvalidBucketCount if n is zero or above section.MaxLabelBuckets.
func WithLabelBuckets(n uint32) EncodeOption {
	return func(c *encodeConfig) error {
		if n == 0 || n > section.MaxLabelBuckets {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBucketCount, n)
		}
		c.buckets = n
		c.bucketsSet = true

		return nil
	}
}
