package xwax

/*------------------------------------------------------------------
 *
 * Purpose:	Minimal .WAV file reading and writing, for the
 *		command line tools and test fixtures.
 *
 *		Only interleaved 16 bit stereo PCM, which is the only
 *		thing a timecode signal is.  Not a general audio
 *		library.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

type wav_riff_header_t struct {
	ChunkID   [4]byte /* "RIFF" */
	ChunkSize uint32
	Format    [4]byte /* "WAVE" */
}

type wav_format_t struct {
	AudioFormat   uint16 /* 1 = PCM */
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

/*------------------------------------------------------------------
 *
 * Name:	wav_read
 *
 * Purpose:	Read a .WAV file of 16 bit stereo PCM.
 *
 * Returns:	Interleaved frames and the sample rate.
 *
 *---------------------------------------------------------------*/

func wav_read(path string) ([]int16, int, error) {
	var f, openErr = os.Open(path)
	if openErr != nil {
		return nil, 0, openErr
	}
	defer f.Close() //nolint:errcheck

	var r = bufio.NewReader(f)

	var riff wav_riff_header_t
	if err := binary.Read(r, binary.LittleEndian, &riff); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	if string(riff.ChunkID[:]) != "RIFF" || string(riff.Format[:]) != "WAVE" {
		return nil, 0, fmt.Errorf("%s: not a WAV file", path)
	}

	/* Walk the chunks for "fmt " and then "data" */

	var format wav_format_t
	var have_format = false

	for {
		var chunkID [4]byte
		var chunkSize uint32

		if err := binary.Read(r, binary.LittleEndian, &chunkID); err != nil {
			return nil, 0, fmt.Errorf("%s: data chunk not found: %w", path, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", path, err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, fmt.Errorf("%s: short fmt chunk", path)
			}

			if err := binary.Read(r, binary.LittleEndian, &format); err != nil {
				return nil, 0, fmt.Errorf("%s: %w", path, err)
			}
			have_format = true

			/* Skip any fmt extension */
			if _, err := r.Discard(int(chunkSize) - 16); err != nil {
				return nil, 0, fmt.Errorf("%s: %w", path, err)
			}

		case "data":
			if !have_format {
				return nil, 0, fmt.Errorf("%s: data before fmt", path)
			}

			if format.AudioFormat != 1 || format.BitsPerSample != 16 {
				return nil, 0, fmt.Errorf("%s: only 16 bit PCM is supported", path)
			}

			if format.NumChannels != 2 {
				return nil, 0, fmt.Errorf("%s: %d channels; timecode needs stereo", path, format.NumChannels)
			}

			var pcm = make([]int16, chunkSize/2)
			if err := binary.Read(r, binary.LittleEndian, pcm); err != nil {
				return nil, 0, fmt.Errorf("%s: %w", path, err)
			}

			return pcm, int(format.SampleRate), nil

		default:
			/* Skip other chunks */
			if _, err := r.Discard(int(chunkSize)); err != nil {
				return nil, 0, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
}

/*------------------------------------------------------------------
 *
 * Name:	wav_write
 *
 * Purpose:	Write interleaved 16 bit stereo PCM as a .WAV file.
 *
 *---------------------------------------------------------------*/

func wav_write(path string, rate int, pcm []int16) error {
	var f, createErr = os.Create(path)
	if createErr != nil {
		return createErr
	}

	var w = bufio.NewWriter(f)

	var dataSize = uint32(len(pcm) * 2)

	var riff = wav_riff_header_t{
		ChunkID:   [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize: 4 + 8 + 16 + 8 + dataSize,
		Format:    [4]byte{'W', 'A', 'V', 'E'},
	}

	var format = wav_format_t{
		AudioFormat:   1,
		NumChannels:   2,
		SampleRate:    uint32(rate),
		ByteRate:      uint32(rate * 4),
		BlockAlign:    4,
		BitsPerSample: 16,
	}

	var err = binary.Write(w, binary.LittleEndian, riff)
	if err == nil {
		err = wav_write_chunk(w, "fmt ", 16, format)
	}
	if err == nil {
		err = wav_write_chunk(w, "data", dataSize, pcm)
	}
	if err == nil {
		err = w.Flush()
	}

	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

func wav_write_chunk(w io.Writer, id string, size uint32, body any) error {
	if _, err := w.Write([]byte(id)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, size); err != nil {
		return err
	}

	return binary.Write(w, binary.LittleEndian, body)
}
