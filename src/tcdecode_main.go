package xwax

/*------------------------------------------------------------------
 *
 * Name:	TcdecodeMain
 *
 * Purpose:	Test fixture for the timecode decoder.
 *
 * Inputs:	Takes audio from a .WAV file instead of the audio
 *		device.
 *
 * Description:	This can be used to test the decoder under controlled
 *		and reproducible conditions, for example on a capture
 *		of a worn or dirty record, or on the output of tcgen.
 *
 *		Audio is submitted in small blocks as a sound card
 *		would deliver it, with pitch and position reported
 *		periodically.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func TcdecodeMain() {
	var timecodeName = pflag.StringP("timecode", "t", "serato_2a", "Timecode definition to decode.")
	var interval = pflag.Float64P("interval", "i", 0.25, "Seconds of audio between reports.")
	var bitLog = pflag.StringP("bit-log", "L", "", "Append each decoded bit, as ASCII, to this file.")
	var bitLogDir = pflag.StringP("bit-log-dir", "l", "", "As --bit-log, but a directory in which daily names are created.")
	var defsFile = pflag.String("timecodes", "", "YAML file of additional timecode definitions.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Decode a timecode signal from a .WAV file.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(1)
	}

	text_color_init(1)

	if *defsFile != "" {
		if _, err := timecode_defs_load(*defsFile); err != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("%s\n", err)
			os.Exit(1)
		}
	}

	var def, defErr = timecode_def_by_name(*timecodeName)
	if defErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", defErr)
		os.Exit(1)
	}

	text_color_set(DW_COLOR_INFO)
	dw_printf("Allocating %d slots (%dKb) for %d bit timecode (%s)\n",
		1<<def.bits, (1<<def.bits)*4/1024, def.bits, def.desc)

	if err := timecode_def_build(def); err != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", err)
		os.Exit(1)
	}

	var pcm, rate, readErr = wav_read(pflag.Arg(0))
	if readErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", readErr)
		os.Exit(1)
	}

	var tc timecoder_t
	if err := timecoder_init(&tc, def); err != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", err)
		os.Exit(1)
	}

	if *bitLog != "" || *bitLogDir != "" {
		var daily = *bitLogDir != ""
		var bl, logErr = bitlog_open(daily, IfThenElse(daily, *bitLogDir, *bitLog))
		if logErr != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("%s\n", logErr)
			os.Exit(1)
		}
		defer bitlog_close(bl)

		timecoder_set_log(&tc, bl)
	}

	/* Submit in sound card sized blocks, reporting as we go */

	var block = (rate / 100) * TIMECODER_CHANNELS
	var next_report = 0.0

	for offset := 0; offset < len(pcm); offset += block {
		var end = min(offset+block, len(pcm))
		timecoder_submit(&tc, pcm[offset:end], rate)

		var elapsed = float64(end) / float64(rate*TIMECODER_CHANNELS)
		if elapsed < next_report {
			continue
		}
		next_report = elapsed + *interval

		report(&tc, elapsed)
	}

	var position, _, ok = timecoder_get_position(&tc)
	text_color_set(DW_COLOR_INFO)
	if ok {
		dw_printf("Finished at cycle %d of %d (%.1fs into the record).\n",
			position, def.length, float64(position)/float64(def.resolution))
	} else {
		dw_printf("Finished without a valid timecode.\n")
	}
}

func report(tc *timecoder_t, elapsed float64) {
	if !timecoder_get_alive(tc) {
		text_color_set(DW_COLOR_DEBUG)
		dw_printf("%7.2fs  no signal\n", elapsed)
		return
	}

	var pitch, havePitch = timecoder_get_pitch(tc)
	var position, age, havePosition = timecoder_get_position(tc)

	text_color_set(DW_COLOR_REC)
	if havePitch {
		dw_printf("%7.2fs  pitch %+6.2f  ", elapsed, pitch)
	} else {
		dw_printf("%7.2fs  pitch      ?  ", elapsed)
	}

	if havePosition {
		text_color_set(DW_COLOR_DECODED)
		dw_printf("position %8d (%.3fs old)", position, age)

		if uint32(position) > timecoder_get_safe(tc) {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("  beyond safe area")
		}
	} else {
		text_color_set(DW_COLOR_DEBUG)
		dw_printf("position unknown")
	}

	dw_printf("\n")
}
