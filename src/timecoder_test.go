package xwax

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const TEST_RATE = 44100
const TEST_LEVEL = 16384

// A decoder fed a clean serato_2a signal in one submission.
func decode_cycles(t *testing.T, start uint32, ncycles int, pitch float64) *timecoder_t {
	t.Helper()

	var def = build_def(t, "serato_2a")

	var gen timecode_gen_t
	require.NoError(t, timecode_gen_init(&gen, def, start, TEST_LEVEL))

	var tc = new(timecoder_t)
	require.NoError(t, timecoder_init(tc, def))

	timecoder_submit(tc, timecode_gen_cycles(&gen, TEST_RATE, pitch, ncycles), TEST_RATE)

	return tc
}

func Test_DecodeForward(t *testing.T) {
	const START = 1000
	const CYCLES = 256

	var tc = decode_cycles(t, START, CYCLES, 1.0)

	assert.True(t, timecoder_get_alive(tc))

	var position, age, ok = timecoder_get_position(tc)
	require.True(t, ok, "no lock after %d cycles", CYCLES)
	assert.InDelta(t, START+CYCLES-1, position, 2)
	assert.Less(t, age, 0.01)

	var pitch, havePitch = timecoder_get_pitch(tc)
	require.True(t, havePitch)
	assert.InDelta(t, 1.0, pitch, 0.01)

	// The query is destructive; nothing more to gather.
	var _, again = timecoder_get_pitch(tc)
	assert.False(t, again)
}

func Test_DecodeReverse(t *testing.T) {
	const START = 2000
	const CYCLES = 512

	var def = build_def(t, "serato_2a")

	var gen timecode_gen_t
	require.NoError(t, timecode_gen_init(&gen, def, START, TEST_LEVEL))

	var pcm = timecode_gen_cycles(&gen, TEST_RATE, 1.0, CYCLES)

	// Play the record backwards: reverse the frames, keeping left
	// and right within each frame.
	var reversed = make([]int16, 0, len(pcm))
	for n := len(pcm) - 2; n >= 0; n -= 2 {
		reversed = append(reversed, pcm[n], pcm[n+1])
	}

	var tc = new(timecoder_t)
	require.NoError(t, timecoder_init(tc, def))

	// Submit in sound card sized chunks and watch the position run
	// backwards once locked.
	var positions []int32
	const CHUNK = 2048 * TIMECODER_CHANNELS

	for offset := 0; offset < len(reversed); offset += CHUNK {
		var end = min(offset+CHUNK, len(reversed))
		timecoder_submit(tc, reversed[offset:end], TEST_RATE)

		if position, _, ok := timecoder_get_position(tc); ok {
			positions = append(positions, position)
		}
	}

	require.GreaterOrEqual(t, len(positions), 2, "never locked in reverse")
	for n := 1; n < len(positions); n++ {
		assert.Less(t, positions[n], positions[n-1])
	}

	var pitch, havePitch = timecoder_get_pitch(tc)
	require.True(t, havePitch)
	assert.InDelta(t, -1.0, pitch, 0.01)
}

func Test_DecodeHalfSpeed(t *testing.T) {
	var tc = decode_cycles(t, 5000, 150, 0.5)

	assert.True(t, timecoder_get_alive(tc))
	assert.Greater(t, tc.valid_counter, VALID_BITS)

	var pitch, havePitch = timecoder_get_pitch(tc)
	require.True(t, havePitch)
	assert.InDelta(t, 0.5, pitch, 0.01)
}

func Test_DecodeAtOtherRates(t *testing.T) {
	// The filter coefficients are derived from the rate, so lock
	// should arrive regardless.
	for _, rate := range []int{22050, 48000, 96000} {
		var def = build_def(t, "serato_2a")

		var gen timecode_gen_t
		require.NoError(t, timecode_gen_init(&gen, def, 100, TEST_LEVEL))

		var tc = new(timecoder_t)
		require.NoError(t, timecoder_init(tc, def))

		timecoder_submit(tc, timecode_gen_cycles(&gen, rate, 1.0, 256), rate)

		var position, _, ok = timecoder_get_position(tc)
		require.True(t, ok, "no lock at %d Hz", rate)
		assert.InDelta(t, 100+256-1, position, 2)

		var pitch, _ = timecoder_get_pitch(tc)
		assert.InDelta(t, 1.0, pitch, 0.01)
	}
}

func Test_Silence(t *testing.T) {
	var def = build_def(t, "serato_2a")

	var tc = new(timecoder_t)
	require.NoError(t, timecoder_init(tc, def))

	timecoder_submit(tc, make([]int16, TEST_RATE*TIMECODER_CHANNELS), TEST_RATE)

	assert.False(t, timecoder_get_alive(tc))

	var _, _, havePosition = timecoder_get_position(tc)
	assert.False(t, havePosition)

	var _, havePitch = timecoder_get_pitch(tc)
	assert.False(t, havePitch)
}

func Test_NoLockBeforeEnoughBits(t *testing.T) {
	// Far fewer cycles than the bit check needs.
	var tc = decode_cycles(t, 1000, 20, 1.0)

	var _, _, havePosition = timecoder_get_position(tc)
	assert.False(t, havePosition)
}

func Test_InitIsClean(t *testing.T) {
	var def = build_def(t, "serato_2a")

	var tc = new(timecoder_t)
	require.NoError(t, timecoder_init(tc, def))

	var _, _, havePosition = timecoder_get_position(tc)
	assert.False(t, havePosition)

	var _, havePitch = timecoder_get_pitch(tc)
	assert.False(t, havePitch)

	assert.False(t, timecoder_get_alive(tc))

	var mon, _ = timecoder_get_monitor(tc)
	assert.Nil(t, mon)

	timecoder_clear(tc)

	mon, _ = timecoder_get_monitor(tc)
	assert.Nil(t, mon)
}

func Test_InitRequiresLookup(t *testing.T) {
	var def = &timecode_def_t{
		name:       "unbuilt",
		bits:       20,
		resolution: 1000,
		polarity:   POLARITY_POSITIVE,
		seed:       0x59017,
		taps:       0x361e4,
		length:     712000,
		safe:       707000,
	}

	var tc = new(timecoder_t)
	assert.ErrorIs(t, timecoder_init(tc, def), ErrLookupNotBuilt)
}

func Test_QueryAccessors(t *testing.T) {
	var def = build_def(t, "serato_2a")

	var tc = new(timecoder_t)
	require.NoError(t, timecoder_init(tc, def))

	assert.Equal(t, uint32(707000), timecoder_get_safe(tc))
	assert.Equal(t, 1000, timecoder_get_resolution(tc))
}

func Test_BitLog(t *testing.T) {
	var def = build_def(t, "serato_2a")

	var gen timecode_gen_t
	require.NoError(t, timecode_gen_init(&gen, def, 0, TEST_LEVEL))

	var tc = new(timecoder_t)
	require.NoError(t, timecoder_init(tc, def))

	var buf bytes.Buffer
	timecoder_set_log(tc, &buf)

	timecoder_submit(tc, timecode_gen_cycles(&gen, TEST_RATE, 1.0, 64), TEST_RATE)

	// One byte per decoded bit, in slicing order.
	assert.GreaterOrEqual(t, buf.Len(), 32)
	for _, b := range buf.Bytes() {
		assert.Contains(t, []byte{'0', '1'}, b)
	}
}

func Test_Monitor(t *testing.T) {
	var def = build_def(t, "serato_2a")

	var gen timecode_gen_t
	require.NoError(t, timecode_gen_init(&gen, def, 0, TEST_LEVEL))

	var tc = new(timecoder_t)
	require.NoError(t, timecoder_init(tc, def))

	timecoder_monitor_init(tc, 64)

	timecoder_submit(tc, timecode_gen_cycles(&gen, TEST_RATE, 1.0, 64), TEST_RATE)

	var mon, size = timecoder_get_monitor(tc)
	require.Equal(t, 64, size)
	require.Len(t, mon, 64*64)

	assert.Contains(t, mon, byte(0xff), "nothing plotted")

	timecoder_monitor_clear(tc)
	mon, size = timecoder_get_monitor(tc)
	assert.Nil(t, mon)
	assert.Zero(t, size)
}

func Test_DecoderInvariants(t *testing.T) {
	var def = build_def(t, "serato_2a")
	var mask = (uint32(1) << def.bits) - 1

	rapid.Check(t, func(t *rapid.T) {
		var tc = new(timecoder_t)
		require.NoError(t, timecoder_init(tc, def))

		// Arbitrary audio, however unpleasant, must be consumed
		// with the decoder state staying in range.
		var nblocks = rapid.IntRange(1, 4).Draw(t, "nblocks")
		for n := 0; n < nblocks; n++ {
			var frames = rapid.SliceOfN(rapid.Int16(), 2, 2048).Draw(t, "frames")
			timecoder_submit(tc, frames, TEST_RATE)

			assert.LessOrEqual(t, tc.bitstream, mask)
			assert.LessOrEqual(t, tc.timecode, mask)
			assert.GreaterOrEqual(t, tc.mono.crossing_ticker, 0)
			assert.GreaterOrEqual(t, tc.channel[0].crossing_ticker, 0)
			assert.GreaterOrEqual(t, tc.channel[1].crossing_ticker, 0)

			// Validity gating: a reported position always has
			// the backing bit count and a known code word.
			if position, _, ok := timecoder_get_position(tc); ok {
				assert.Greater(t, tc.valid_counter, VALID_BITS)
				assert.GreaterOrEqual(t, def.lookup[tc.bitstream], int32(0))
				assert.Equal(t, def.lookup[tc.bitstream], position)
			}
		}
	})
}
