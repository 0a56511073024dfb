package xwax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GenBlockShape(t *testing.T) {
	var def, err = timecode_def_by_name("serato_2a")
	require.NoError(t, err)

	var gen timecode_gen_t
	require.NoError(t, timecode_gen_init(&gen, def, 0, 16384))

	var pcm = timecode_gen_block(&gen, 44100, 1.0, 4410)

	require.Len(t, pcm, 4410*2)

	// 4410 frames at 1000 cycles/s is 100 cycles.
	assert.InDelta(t, 100, gen.cycle, 1)

	// Loudest cycles are pressed at 5/4 of the base level.
	for _, s := range pcm {
		assert.LessOrEqual(t, s, int16(16384*5/4))
		assert.GreaterOrEqual(t, s, int16(-16384*5/4))
	}
}

func Test_GenContinuesAcrossBlocks(t *testing.T) {
	var def, err = timecode_def_by_name("serato_2a")
	require.NoError(t, err)

	var one, two timecode_gen_t
	require.NoError(t, timecode_gen_init(&one, def, 0, 16384))
	require.NoError(t, timecode_gen_init(&two, def, 0, 16384))

	var whole = timecode_gen_block(&one, 44100, 1.0, 2000)

	var split = timecode_gen_block(&two, 44100, 1.0, 777)
	split = append(split, timecode_gen_block(&two, 44100, 1.0, 2000-777)...)

	assert.Equal(t, whole, split)
}

func Test_GenStartsAtRequestedCycle(t *testing.T) {
	var def, err = timecode_def_by_name("serato_2a")
	require.NoError(t, err)

	var gen timecode_gen_t
	require.NoError(t, timecode_gen_init(&gen, def, 1000, 16384))

	var state = def.seed
	for n := 0; n < 1000; n++ {
		state = lfsr(def, state)
	}

	assert.Equal(t, uint32(1000), gen.cycle)
	assert.Equal(t, state, gen.state)
}

func Test_GenRejectsBadParameters(t *testing.T) {
	var def, err = timecode_def_by_name("serato_2a")
	require.NoError(t, err)

	var gen timecode_gen_t

	assert.Error(t, timecode_gen_init(&gen, def, def.length, 16384),
		"start beyond the end of the record")

	assert.Error(t, timecode_gen_init(&gen, def, 0, 32000),
		"loud cycles would clip")
}
