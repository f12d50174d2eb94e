package kernel

import (
	"log"
	"math/big"
	"math/bits"
)

// Time is the elapsed simulated time, counted in units of the kernel's
// resolution. It is a 128-bit unsigned counter split into a high and a low
// 64-bit word so that long runs at femtosecond resolution cannot wrap.
type Time struct {
	high uint64
	low  uint64
}

// TimeFromUnits returns the time that is u resolution units after time zero.
func TimeFromUnits(u uint64) Time {
	return Time{low: u}
}

// MakeTime builds a time from its high and low words.
func MakeTime(high, low uint64) Time {
	return Time{high: high, low: low}
}

// High returns the high 64-bit word of the counter.
func (t Time) High() uint64 {
	return t.high
}

// Low returns the low 64-bit word of the counter.
func (t Time) Low() uint64 {
	return t.low
}

// Add returns t + d.
func (t Time) Add(d Time) Time {
	low, carry := bits.Add64(t.low, d.low, 0)
	high, overflow := bits.Add64(t.high, d.high, carry)
	if overflow != 0 {
		log.Panic("simulated time overflow")
	}

	return Time{high: high, low: low}
}

// Cmp returns -1 if t is before other, 0 if equal, and 1 if after.
func (t Time) Cmp(other Time) int {
	switch {
	case t.high < other.high:
		return -1
	case t.high > other.high:
		return 1
	case t.low < other.low:
		return -1
	case t.low > other.low:
		return 1
	default:
		return 0
	}
}

// Before returns true if t is strictly earlier than other.
func (t Time) Before(other Time) bool {
	return t.Cmp(other) < 0
}

// Equal returns true if the two times are the same instant.
func (t Time) Equal(other Time) bool {
	return t == other
}

// IsZero returns true at the start of simulated time.
func (t Time) IsZero() bool {
	return t.high == 0 && t.low == 0
}

// String prints the unit count in decimal.
func (t Time) String() string {
	if t.high == 0 {
		return new(big.Int).SetUint64(t.low).String()
	}

	v := new(big.Int).SetUint64(t.high)
	v.Lsh(v, 64)
	v.Add(v, new(big.Int).SetUint64(t.low))

	return v.String()
}

// Unit is a physical duration expressed as a resolution-unit multiplier. The
// kernel resolution is one femtosecond, so one Unit step is 1e3 of the next
// smaller unit.
type Unit uint64

// The supported time units.
const (
	FS Unit = 1
	PS Unit = 1e3
	NS Unit = 1e6
	US Unit = 1e9
	MS Unit = 1e12
	S  Unit = 1e15
)

// Units converts n of the given unit into a Time. The multiplication is done
// in 128 bits, so delays such as Units(1<<40, S) stay exact.
func Units(n uint64, u Unit) Time {
	high, low := bits.Mul64(n, uint64(u))
	return Time{high: high, low: low}
}

// Seconds converts a time to a float number of seconds for reporting. The
// conversion is lossy beyond 53 bits and must not feed back into scheduling.
func (t Time) Seconds() float64 {
	const unitsPerSecond = 1e15
	return (float64(t.high)*18446744073709551616.0 + float64(t.low)) /
		unitsPerSecond
}
