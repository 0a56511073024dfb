package xwax

/*------------------------------------------------------------------
 *
 * Name:	TcgenMain
 *
 * Purpose:	Command line tool to render a timecode signal as a
 *		.WAV file.
 *
 * Description:	Useful for testing the decoder without a turntable,
 *		and for burning timecode CDs from the serato_cd
 *		definition.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

const TCGEN_BLOCK_FRAMES = 4096

func TcgenMain() {
	var timecodeName = pflag.StringP("timecode", "t", "serato_2a", "Timecode definition to generate.")
	var rate = pflag.IntP("rate", "r", 44100, "Sample rate, in Hz.")
	var pitch = pflag.IntP("pitch", "p", 100, "Playback speed, as a percentage.  Must be positive.")
	var seconds = pflag.Float64P("seconds", "s", 60, "Length of audio to generate.")
	var start = pflag.Uint32("start", 0, "Cycle number at the start of the audio.")
	var level = pflag.IntP("level", "l", 16384, "Base peak amplitude of each channel, in 16 bit units.")
	var defsFile = pflag.String("timecodes", "", "YAML file of additional timecode definitions.")
	var list = pflag.Bool("list", false, "List the known timecodes and exit.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Generate a timecode signal as a .WAV file.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] output.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	text_color_init(1)

	if *defsFile != "" {
		if _, err := timecode_defs_load(*defsFile); err != nil {
			text_color_set(DW_COLOR_ERROR)
			dw_printf("%s\n", err)
			os.Exit(1)
		}
	}

	if *list {
		for _, def := range timecode_defs {
			dw_printf("%-12s %s (%d bits, %d cycles/s, %d cycles)\n",
				def.name, def.desc, def.bits, def.resolution, def.length)
		}
		os.Exit(0)
	}

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(1)
	}
	var output = pflag.Arg(0)

	var def, defErr = timecode_def_by_name(*timecodeName)
	if defErr != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", defErr)
		os.Exit(1)
	}

	if *pitch <= 0 {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("Pitch %d%% will not move the record forwards.\n", *pitch)
		os.Exit(1)
	}

	var gen timecode_gen_t
	if err := timecode_gen_init(&gen, def, *start, *level); err != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", err)
		os.Exit(1)
	}

	var nframes = int(*seconds * float64(*rate))
	var pcm = make([]int16, 0, nframes*2)

	for len(pcm) < nframes*2 {
		var block = min(TCGEN_BLOCK_FRAMES, nframes-len(pcm)/2)
		pcm = append(pcm, timecode_gen_block(&gen, *rate, float64(*pitch)/100, block)...)
	}

	if err := wav_write(output, *rate, pcm); err != nil {
		text_color_set(DW_COLOR_ERROR)
		dw_printf("%s\n", err)
		os.Exit(1)
	}

	text_color_set(DW_COLOR_INFO)
	dw_printf("Wrote %.1fs of %s (%s) to %s, ending at cycle %d.\n",
		*seconds, def.name, def.desc, output, gen.cycle)
}
