package xwax

/*------------------------------------------------------------------
 *
 * Purpose:	Convert the timecode bit sequence to audio, for
 *		writing to a .WAV sound file or for feeding the
 *		decoder under controlled and reproducible conditions.
 *
 * Description:	One sine cycle per bit, left channel leading the
 *		right by 90 degrees.  A 1 bit is pressed louder than a
 *		0 bit, so the decoder's reference level sits between
 *		the two.
 *
 *		A phase accumulator carries fractional cycles across
 *		samples and across blocks, so any rate and pitch stay
 *		continuous.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"math"
)

/* Upper bits of the phase accumulator index the sine table. */

const GEN_PHASE_SHIFT_90 = uint32(64) << 24
const GEN_PHASE_SHIFT_45 = uint32(32) << 24

/* Per-cycle amplitude, as a fraction of the base level */

const GEN_ONE_GAIN = 1.25
const GEN_ZERO_GAIN = 0.75

var gen_sine_table [256]float64
var gen_sine_table_ready bool

type timecode_gen_t struct {
	def *timecode_def_t

	state uint32 /* LFSR state for the current cycle */
	cycle uint32 /* current cycle number */
	phase uint32 /* phase accumulator */
	level float64
}

/*------------------------------------------------------------------
 *
 * Name:	timecode_gen_init
 *
 * Purpose:	Initialise a timecode signal generator.
 *
 * Inputs:	def	- Timecode to generate.  The lookup table is
 *			  not needed.
 *
 *		start	- Cycle number of the first cycle produced.
 *
 *		level	- Base peak amplitude of each channel, in
 *			  16 bit units.  The loudest cycles are
 *			  pressed at 5/4 of this.
 *
 *---------------------------------------------------------------*/

func timecode_gen_init(g *timecode_gen_t, def *timecode_def_t, start uint32, level int) error {
	if start >= def.length {
		return fmt.Errorf("start cycle %d is beyond the end of %s (%d)",
			start, def.name, def.length)
	}

	if float64(level)*GEN_ONE_GAIN > 32767 {
		return fmt.Errorf("level %d clips at the loudest cycles", level)
	}

	if !gen_sine_table_ready {
		for n := range gen_sine_table {
			gen_sine_table[n] = math.Sin(float64(n) * 2.0 * math.Pi / 256.0)
		}
		gen_sine_table_ready = true
	}

	g.def = def
	g.state = def.seed
	for n := uint32(0); n < start; n++ {
		g.state = lfsr(def, g.state)
	}
	g.cycle = start
	g.phase = 0
	g.level = float64(level)

	return nil
}

func gen_sin(phase uint32) float64 {
	return gen_sine_table[(phase>>24)&0xff]
}

/* Amplitude of the current cycle.  The bit pressed at cycle n is the
 * most significant bit of the LFSR state for cycle n. */

func gen_amplitude(g *timecode_gen_t) float64 {
	var bit = (g.state >> (g.def.bits - 1)) & 1

	return g.level * IfThenElse(bit != 0, GEN_ONE_GAIN, GEN_ZERO_GAIN)
}

/*------------------------------------------------------------------
 *
 * Name:	timecode_gen_block
 *
 * Purpose:	Produce a block of interleaved stereo frames.
 *
 * Inputs:	rate	- Sample rate, in Hz.
 *
 *		pitch	- Playback speed multiple; must be positive.
 *			  Reverse playback is a caller concern (play
 *			  the frames backwards).
 *
 *		nframes	- Number of stereo frames wanted.
 *
 *---------------------------------------------------------------*/

func timecode_gen_block(g *timecode_gen_t, rate int, pitch float64, nframes int) []int16 {
	var def = g.def

	var freq = float64(def.resolution) * pitch
	var delta = uint32(math.Round(math.Pow(2., 32.) * freq / float64(rate)))

	var pcm = make([]int16, 0, nframes*2)
	var amp = gen_amplitude(g)

	for n := 0; n < nframes; n++ {
		/* The mono sum starts each cycle positive; at every
		 * crossing of the sum the left channel's own crossing
		 * is the older of the two, which the decoder reads as
		 * forward motion. */

		var left = amp * gen_sin(g.phase-GEN_PHASE_SHIFT_45)
		var right = amp * gen_sin(g.phase+GEN_PHASE_SHIFT_45)

		pcm = append(pcm, int16(left), int16(right))

		var previous = g.phase
		g.phase += delta

		if g.phase < previous { /* wrapped; a cycle has completed */
			g.state = lfsr(def, g.state)
			g.cycle++

			if g.cycle == def.length { /* end of the record */
				g.state = def.seed
				g.cycle = 0
			}

			amp = gen_amplitude(g)
		}
	}

	return pcm
}

/* Produce whole cycles rather than a frame count */

func timecode_gen_cycles(g *timecode_gen_t, rate int, pitch float64, ncycles int) []int16 {
	var frames_per_cycle = float64(rate) / (float64(g.def.resolution) * pitch)
	var nframes = int(math.Round(frames_per_cycle * float64(ncycles)))

	return timecode_gen_block(g, rate, pitch, nframes)
}
