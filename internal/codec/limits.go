package codec

// MaxCompactSize is the largest element count the Zcash encoding library accepts.
const MaxCompactSize = 0x02000000

// Limits constrains decode memory use.
type Limits struct {
	MaxSequenceLen uint64
}

func DefaultLimits() Limits {
	return Limits{MaxSequenceLen: MaxCompactSize}
}
