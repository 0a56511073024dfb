package xwax

/*------------------------------------------------------------------
 *
 * Purpose:	The monitor (otherwise known as 'scope' in the
 *		interface) is an x-y display of the incoming audio,
 *		used for visual diagnostics of the signal.
 *
 *---------------------------------------------------------------*/

const MONITOR_DECAY_EVERY = 512 /* in samples */

/* Initialise a monitor of the given side length on a timecoder.  The
 * buffer is row-major, one byte per pixel. */

func timecoder_monitor_init(tc *timecoder_t, size int) {
	tc.mon = make([]byte, size*size)
	tc.mon_size = size
	tc.mon_counter = 0
}

/* Release the monitor on the given timecoder */

func timecoder_monitor_clear(tc *timecoder_t) {
	tc.mon = nil
	tc.mon_size = 0
	tc.mon_counter = 0
}

/* Return the monitor buffer and its side length for rendering, or
 * (nil, 0) when no monitor is attached. */

func timecoder_get_monitor(tc *timecoder_t) ([]byte, int) {
	return tc.mon, tc.mon_size
}

func monitor_update(tc *timecoder_t, left int16, right int16) {

	/* Decay the pixels already in the monitor */

	tc.mon_counter++
	if tc.mon_counter%MONITOR_DECAY_EVERY == 0 {
		for p, v := range tc.mon {
			if v != 0 {
				tc.mon[p] = byte(int(v) * 7 / 8)
			}
		}
	}

	/* The scale tracks the reference level, so the scope stays a
	 * sensible size whatever the input amplitude.  Nothing to plot
	 * until the first cycle has set it. */

	if tc.ref_level < 0 {
		return
	}

	var centre = tc.mon_size / 2

	var x = centre + int(float64(left)*float64(tc.mon_size)/tc.ref_level)
	var y = centre + int(float64(right)*float64(tc.mon_size)/tc.ref_level)

	x = min(max(x, 0), tc.mon_size-1)
	y = min(max(y, 0), tc.mon_size-1)

	/* Set the pixel value to white */

	tc.mon[y*tc.mon_size+x] = 0xff
}
