package xwax

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_WavRoundTrip(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "timecode.wav")

	var def, err = timecode_def_by_name("serato_2a")
	require.NoError(t, err)

	var gen timecode_gen_t
	require.NoError(t, timecode_gen_init(&gen, def, 0, 16384))
	var pcm = timecode_gen_cycles(&gen, 44100, 1.0, 50)

	require.NoError(t, wav_write(path, 44100, pcm))

	var read, rate, readErr = wav_read(path)
	require.NoError(t, readErr)

	assert.Equal(t, 44100, rate)
	assert.Equal(t, pcm, read)
}

func Test_WavReadRejectsNonWav(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "not.wav")
	require.NoError(t, os.WriteFile(path, []byte("0101010101010101010101"), 0644))

	var _, _, err = wav_read(path)
	assert.Error(t, err)
}

func Test_WavReadRejectsMono(t *testing.T) {
	// Timecode needs both channels for direction.
	var path = filepath.Join(t.TempDir(), "mono.wav")

	var header = []byte{
		'R', 'I', 'F', 'F', 36, 0, 0, 0, 'W', 'A', 'V', 'E',
		'f', 'm', 't', ' ', 16, 0, 0, 0,
		1, 0, /* PCM */
		1, 0, /* 1 channel */
		0x44, 0xac, 0, 0, /* 44100 */
		0x88, 0x58, 0x01, 0, /* byte rate */
		2, 0, 16, 0, /* align, bits */
		'd', 'a', 't', 'a', 0, 0, 0, 0,
	}
	require.NoError(t, os.WriteFile(path, header, 0644))

	var _, _, err = wav_read(path)
	assert.ErrorContains(t, err, "stereo")
}
