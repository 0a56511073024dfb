package xwax

import (
	"math/bits"
)

const MAX_BITS = 32 /* bits in an int */

/* Linear Feedback Shift Register in the forward direction.  New values
 * are generated at the most-significant bit. */

func lfsr(def *timecode_def_t, code uint32) uint32 {
	var feedback = uint32(bits.OnesCount32(code&(def.taps|1))) & 1

	return (code >> 1) | (feedback << (def.bits - 1))
}

/* Linear Feedback Shift Register in the reverse direction.  New values
 * are generated at the least-significant bit. */

func lfsr_rev(def *timecode_def_t, code uint32) uint32 {
	var mask = (uint32(1) << def.bits) - 1
	var feedback = uint32(bits.OnesCount32(code&((def.taps>>1)|(1<<(def.bits-1))))) & 1

	return ((code << 1) & mask) | feedback
}
