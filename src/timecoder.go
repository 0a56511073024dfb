package xwax

/*------------------------------------------------------------------
 *
 * Purpose:	Timecode decoder.
 *
 * Inputs:	Blocks of stereo 16 bit PCM from the turntable,
 *		carrying the pseudo-random bit sequence pressed on the
 *		control record as an amplitude-modulated sine wave.
 *
 * Outputs:	Playback position and pitch, polled between blocks.
 *
 * Description:	Each wave cycle of the mono sum carries one bit.  An
 *		adaptive zero estimate with hysteresis delimits the
 *		half cycles; the peak levels of the two halves are
 *		compared against a reference to slice the bit, and the
 *		phase difference between the stereo channels at each
 *		crossing gives the direction.  Bits are checked
 *		against the LFSR prediction, and once enough arrive
 *		without error the bitstream indexes the lookup table
 *		to recover the absolute position.
 *
 *---------------------------------------------------------------*/

import (
	"io"
	"math"
)

const ZERO_THRESHOLD = 128
const SIGNAL_THRESHOLD = 256

/* Time constants for the zero and signal level filters, in seconds.
 * The filter coefficients are derived from these and the sample rate
 * of each submitted block. */

const ZERO_RC = 0.001
const SIGNAL_RC = 0.004

const REF_PEAKS_AVG = 48 /* in wave cycles */

/* The number of correct bits which come in before the timecode
 * is declared valid.  Set this too low, and risk the record skipping
 * around (often to blank areas of track) during scratching. */

const VALID_BITS = 24

const TIMECODER_CHANNELS = 2

var bit_zero = []byte{'0'}
var bit_one = []byte{'1'}

type timecoder_channel_t struct {
	positive        bool    /* wave is in positive part of cycle */
	zero            float64 /* adaptive estimate of the DC offset */
	crossing_ticker int     /* samples since the last crossing */
}

type timecoder_t struct {
	def *timecode_def_t

	rate         int /* sample rate of the most recent block */
	zero_alpha   float64
	signal_alpha float64

	forwards bool
	channel  [TIMECODER_CHANNELS]timecoder_channel_t
	mono     timecoder_channel_t

	/* Signal levels */

	half_peak    float64
	wave_peak    float64
	ref_level    float64 /* -1 until the first cycle completes */
	signal_level float64

	/* Pitch information */

	crossings    int /* number of zero crossings; negative in reverse */
	pitch_ticker int /* number of samples from which crossings counted */
	cycle_ticker int /* samples since the wave last crossed zero */

	/* Numerical timecode */

	bitstream       uint32 /* actual bits from the record */
	timecode        uint32 /* corrected timecode */
	valid_counter   int    /* number of successful error checks */
	timecode_ticker int    /* samples since a valid timecode was read */

	/* Feedback */

	mon         []byte /* x-y scope array, or nil */
	mon_size    int
	mon_counter int

	log io.Writer /* optional sink for decoded bits, or nil */
}

func init_channel(ch *timecoder_channel_t) {
	ch.positive = false
	ch.zero = 0
	ch.crossing_ticker = 0
}

/*------------------------------------------------------------------
 *
 * Name:	timecoder_init
 *
 * Purpose:	Initialise a timecode decoder for the given
 *		definition.
 *
 * Inputs:	def	- A definition whose lookup table has been
 *			  built with timecode_def_build.  The decoder
 *			  keeps the reference; the table is shared
 *			  read-only with any other decoders of the
 *			  same format.
 *
 * Returns:	nil, or an error if the lookup table is missing.
 *
 *---------------------------------------------------------------*/

func timecoder_init(tc *timecoder_t, def *timecode_def_t) error {
	if def == nil {
		return ErrUnknownTimecode
	}

	if def.lookup == nil {
		return ErrLookupNotBuilt
	}

	tc.def = def
	timecoder_reset(tc)

	tc.mon = nil
	tc.mon_size = 0
	tc.mon_counter = 0
	tc.log = nil

	return nil
}

func timecoder_reset(tc *timecoder_t) {
	tc.rate = 0
	tc.zero_alpha = 0
	tc.signal_alpha = 0

	tc.forwards = true

	init_channel(&tc.mono)
	for c := range tc.channel {
		init_channel(&tc.channel[c])
	}

	tc.half_peak = 0
	tc.wave_peak = 0
	tc.ref_level = -1
	tc.signal_level = 0

	tc.crossings = 0
	tc.pitch_ticker = 0
	tc.cycle_ticker = 0

	tc.bitstream = 0
	tc.timecode = 0
	tc.valid_counter = 0
	tc.timecode_ticker = 0
}

/* Clear a timecode decoder.  Releases the monitor and returns the
 * decoder to its initial state; must not be called concurrently with
 * timecoder_submit. */

func timecoder_clear(tc *timecoder_t) {
	timecoder_monitor_clear(tc)
	tc.log = nil
	timecoder_reset(tc)
}

/* Attach a sink which receives an ASCII '0' or '1' for every decoded
 * bit, or nil to detach.  Write errors are ignored; the log is
 * advisory. */

func timecoder_set_log(tc *timecoder_t, w io.Writer) {
	tc.log = w
}

func detect_zero_crossing(ch *timecoder_channel_t, v float64, alpha float64) bool {
	var swapped = false

	ch.crossing_ticker++

	if !ch.positive && v >= ch.zero+ZERO_THRESHOLD {
		swapped = true
		ch.positive = true
		ch.crossing_ticker = 0
	} else if ch.positive && v < ch.zero-ZERO_THRESHOLD {
		swapped = true
		ch.positive = false
		ch.crossing_ticker = 0
	}

	ch.zero += alpha * (v - ch.zero)

	return swapped
}

/*------------------------------------------------------------------
 *
 * Name:	timecoder_submit
 *
 * Purpose:	Submit and decode a block of PCM audio data.
 *
 * Inputs:	pcm	- Interleaved stereo frames, left then right.
 *			  The left channel leads in phase during
 *			  forward playback.
 *
 *		rate	- Sample rate of this block, in Hz.
 *
 * Description:	Called serially from the audio thread.  Every sample
 *		is consumed; loss of lock or of signal is a state, not
 *		an error, and is visible through the queries below.
 *		No allocation happens here.
 *
 *---------------------------------------------------------------*/

func timecoder_submit(tc *timecoder_t, pcm []int16, rate int) {
	var def = tc.def

	tc.rate = rate

	var dt = 1.0 / float64(rate)
	tc.zero_alpha = dt / (ZERO_RC + dt)
	tc.signal_alpha = dt / (SIGNAL_RC + dt)

	var mask = (uint32(1) << def.bits) - 1

	for offset := 0; offset+1 < len(pcm); offset += TIMECODER_CHANNELS {
		var left = pcm[offset]
		var right = pcm[offset+1]

		detect_zero_crossing(&tc.channel[0], float64(left), tc.zero_alpha)
		detect_zero_crossing(&tc.channel[1], float64(right), tc.zero_alpha)

		/* Read from the mono channel */

		var v = float64(int32(left) + int32(right))
		var swapped = detect_zero_crossing(&tc.mono, v, tc.zero_alpha)

		/* If a sign change in the (zero corrected) audio has
		 * happened, log the peak information */

		if swapped {

			/* Work out whether half way through a cycle we
			 * are looking for the wave to be positive or
			 * negative */

			if tc.mono.positive == ((def.polarity == POLARITY_POSITIVE) != tc.forwards) {

				/* Entering the second half of a wave cycle */

				tc.half_peak = tc.wave_peak

			} else {

				/* Completed a full wave cycle, so time to
				 * analyse the level and work out whether
				 * it's a 1 or 0 */

				var bit uint32
				if tc.wave_peak+tc.half_peak > tc.ref_level {
					bit = 1
				}

				if tc.log != nil {
					tc.log.Write(IfThenElse(bit != 0, bit_one, bit_zero)) //nolint:errcheck
				}

				/* Add it to the bitstream, and work out
				 * what we were expecting (timecode).
				 *
				 * tc.bitstream is always in the order it
				 * is physically placed on the vinyl,
				 * regardless of the direction. */

				if tc.forwards {
					tc.timecode = lfsr(def, tc.timecode)
					tc.bitstream = (tc.bitstream >> 1) | (bit << (def.bits - 1))
				} else {
					tc.timecode = lfsr_rev(def, tc.timecode)
					tc.bitstream = ((tc.bitstream << 1) & mask) | bit
				}

				if tc.timecode == tc.bitstream {
					tc.valid_counter++
				} else {
					tc.timecode = tc.bitstream
					tc.valid_counter = 0
				}

				/* Take note of the last time we read a
				 * valid timecode */

				tc.timecode_ticker = 0

				/* Adjust the reference level based on the
				 * peaks seen in this cycle */

				if tc.ref_level < 0 {
					tc.ref_level = tc.half_peak + tc.wave_peak
				} else {
					tc.ref_level = (tc.ref_level*(REF_PEAKS_AVG-1) +
						tc.half_peak + tc.wave_peak) / REF_PEAKS_AVG
				}
			}

			/* Calculate the immediate direction from phase
			 * difference, based on the last channel to cross
			 * zero */

			tc.forwards = tc.channel[0].crossing_ticker > tc.channel[1].crossing_ticker

			if tc.forwards {
				tc.crossings++
			} else {
				tc.crossings--
			}

			tc.pitch_ticker += tc.cycle_ticker
			tc.cycle_ticker = 0
			tc.wave_peak = 0

		} /* swapped */

		tc.cycle_ticker++
		tc.timecode_ticker++

		/* Find the zero-normalised sample of the peak value
		 * from the input */

		var w = math.Abs(v - tc.mono.zero)
		if w > tc.wave_peak {
			tc.wave_peak = w
		}

		tc.signal_level += tc.signal_alpha * (w - tc.signal_level)

		/* Update the monitor to add the incoming sample */

		if tc.mon != nil {
			monitor_update(tc, left, right)
		}
	}
}

/*------------------------------------------------------------------
 *
 * Name:	timecoder_get_pitch
 *
 * Purpose:	Return the timecode pitch, based on cycles of the sine
 *		wave, as a multiple of the nominal playback speed.
 *		Negative values mean reverse.
 *
 * Returns:	(pitch, true), or (0, false) if there is no data to
 *		gather pitch from.
 *
 *		This function can only be called by one context, as it
 *		resets the state of the counters.
 *
 *---------------------------------------------------------------*/

func timecoder_get_pitch(tc *timecoder_t) (float64, bool) {
	if tc.crossings == 0 {
		return 0, false
	}

	/* Two crossings per wave cycle, resolution cycles per second
	 * at nominal speed */

	var pitch = float64(tc.rate) * float64(tc.crossings) /
		float64(tc.pitch_ticker) / float64(tc.def.resolution*2)

	tc.crossings = 0
	tc.pitch_ticker = 0

	return pitch, true
}

/*------------------------------------------------------------------
 *
 * Name:	timecoder_get_position
 *
 * Purpose:	Return the known position in the timecode.
 *
 * Returns:	(cycle, elapsed, true) where elapsed is the time in
 *		seconds since the position was read, or (-1, 0, false)
 *		if the position is not known.  Too few error-checked
 *		bits also counts as not known.
 *
 *---------------------------------------------------------------*/

func timecoder_get_position(tc *timecoder_t) (int32, float64, bool) {
	if tc.valid_counter > VALID_BITS {
		var r = tc.def.lookup[tc.bitstream]

		if r >= 0 {
			return r, float64(tc.timecode_ticker) / float64(tc.rate), true
		}
	}

	return -1, 0, false
}

/* Return true if there is any timecode signal available */

func timecoder_get_alive(tc *timecoder_t) bool {
	return tc.signal_level >= SIGNAL_THRESHOLD
}

/* Return the last 'safe' timecode value on the record.  Beyond this
 * value, we probably want to ignore the timecode values, as we will
 * hit the label of the record. */

func timecoder_get_safe(tc *timecoder_t) uint32 {
	return tc.def.safe
}

/* Return the resolution of the timecode.  This is the number of bits
 * per second, which corresponds to the frequency of the sine wave. */

func timecoder_get_resolution(tc *timecoder_t) int {
	return tc.def.resolution
}
