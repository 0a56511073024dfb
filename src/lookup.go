package xwax

/*------------------------------------------------------------------
 *
 * Purpose:	Build the lookup table for a timecode definition.
 *
 *		The table maps every valid LFSR state to the cycle at
 *		which it occurs, so a decoded bitstream can be turned
 *		into an absolute position with a single read.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
)

var ErrUnknownTimecode = errors.New("unknown timecode")
var ErrLookupWrap = errors.New("timecode has wrapped")
var ErrLookupNotBuilt = errors.New("lookup table has not been built")

/*------------------------------------------------------------------
 *
 * Name:	timecode_def_build
 *
 * Purpose:	Walk the LFSR from the seed and fill in the lookup
 *		table on the definition.
 *
 * Inputs:	def	- Definition from timecode_def_by_name or
 *			  timecode_defs_load.
 *
 * Returns:	nil on success.  ErrLookupWrap if the sequence
 *		revisits a state before 'length' cycles, which means
 *		the seed, taps or length are inconsistent.
 *
 * Description:	The table has one entry per possible code word, so a
 *		23 bit timecode allocates 32Mb.  It is built once and
 *		then shared read-only; decoders of the same format
 *		borrow it from the definition.
 *
 *		Building also checks the transition round-trip for
 *		every state visited.
 *
 *---------------------------------------------------------------*/

func timecode_def_build(def *timecode_def_t) error {
	if def.lookup != nil {
		return nil /* already built */
	}

	var lookup = make([]int32, uint32(1)<<def.bits)
	for n := range lookup {
		lookup[n] = -1
	}

	var current = def.seed

	for n := uint32(0); n < def.length; n++ {
		if lookup[current] != -1 {
			return fmt.Errorf("%s at cycle %d of %d: %w",
				def.name, n, def.length, ErrLookupWrap)
		}

		lookup[current] = int32(n)

		var next = lfsr(def, current)
		if lfsr_rev(def, next) != current {
			return fmt.Errorf("%s: %#x does not round-trip", def.name, current)
		}

		current = next
	}

	def.lookup = lookup

	return nil
}

/*------------------------------------------------------------------
 *
 * Name:	timecode_def_free_lookup
 *
 * Purpose:	Release a built lookup table.
 *
 *		Only useful when a definition is finished with for the
 *		lifetime of the process; decoders sharing the table
 *		must be cleared first.
 *
 *---------------------------------------------------------------*/

func timecode_def_free_lookup(def *timecode_def_t) {
	def.lookup = nil
}
