package hash

// labelMultiplier is the multiplier of the label table's running hash.
const labelMultiplier = 0x492

// Label computes the label table hash of name: a running 32-bit accumulator
// over the label's bytes, multiplied by 0x492 before each byte is added.
func Label(name string) uint32 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h*labelMultiplier + uint32(name[i])
	}

	return h
}

// Bucket returns the label table bucket of name for a table with buckets slots.
// Panics if buckets is zero.
func Bucket(name string, buckets uint32) uint32 {
	return Label(name) % buckets
}
