package xwax

/*------------------------------------------------------------------
 *
 * Name:	TcscopeMain
 *
 * Purpose:	Live timecode decoding from the sound card.
 *
 * Description:	Captures the turntable input via PortAudio, runs the
 *		decoder on it and reports pitch and position until
 *		interrupted.  On exit the monitor (the x-y 'scope of
 *		the incoming signal) can be written out as a PGM image
 *		for eyeballing cabling and cartridge problems.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"
)

const TCSCOPE_BLOCK_FRAMES = 441 /* 10ms at 44100Hz */

func TcscopeMain() {
	var timecodeName = pflag.StringP("timecode", "t", "serato_2a", "Timecode definition to decode.")
	var rate = pflag.IntP("rate", "r", 44100, "Capture sample rate, in Hz.")
	var interval = pflag.Float64P("interval", "i", 1.0, "Seconds between reports.")
	var scopeSize = pflag.Int("scope-size", 128, "Side length of the monitor image.")
	var scopeOut = pflag.String("scope-out", "", "Write the monitor as a PGM image here on exit.")
	var defsFile = pflag.String("timecodes", "", "YAML file of additional timecode definitions.")
	var verbose = pflag.BoolP("verbose", "v", false, "Verbose.  Also log while there is no lock.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Decode timecode live from the sound card.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *defsFile != "" {
		var n, err = timecode_defs_load(*defsFile)
		if err != nil {
			log.Fatal("Timecode definitions", "err", err)
		}
		log.Info("Loaded timecode definitions", "file", *defsFile, "count", n)
	}

	var def, defErr = timecode_def_by_name(*timecodeName)
	if defErr != nil {
		log.Fatal("Unknown timecode", "err", defErr)
	}

	log.Info("Building lookup", "timecode", def.name, "bits", def.bits, "cycles", def.length)

	if err := timecode_def_build(def); err != nil {
		log.Fatal("Lookup build failed", "err", err)
	}

	var tc timecoder_t
	if err := timecoder_init(&tc, def); err != nil {
		log.Fatal("Decoder init failed", "err", err)
	}

	timecoder_monitor_init(&tc, *scopeSize)

	if err := portaudio.Initialize(); err != nil {
		log.Fatal("PortAudio", "err", err)
	}
	defer portaudio.Terminate() //nolint:errcheck

	var in = make([]int16, TCSCOPE_BLOCK_FRAMES*TIMECODER_CHANNELS)

	var stream, openErr = portaudio.OpenDefaultStream(TIMECODER_CHANNELS, 0,
		float64(*rate), TCSCOPE_BLOCK_FRAMES, in)
	if openErr != nil {
		log.Fatal("No capture device", "err", openErr)
	}
	defer stream.Close() //nolint:errcheck

	if err := stream.Start(); err != nil {
		log.Fatal("Capture start failed", "err", err)
	}

	log.Info("Listening", "timecode", def.name, "rate", *rate)

	var interrupt = make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	var samples_until_report = 0

capture:
	for {
		select {
		case <-interrupt:
			break capture
		default:
		}

		if err := stream.Read(); err != nil {
			/* Overruns happen; anything else is fatal */
			if err != portaudio.InputOverflowed {
				log.Error("Capture read failed", "err", err)
				break capture
			}
		}

		timecoder_submit(&tc, in, *rate)

		samples_until_report -= TCSCOPE_BLOCK_FRAMES
		if samples_until_report > 0 {
			continue
		}
		samples_until_report = int(*interval * float64(*rate))

		if !timecoder_get_alive(&tc) {
			log.Debug("No signal")
			continue
		}

		var pitch, _ = timecoder_get_pitch(&tc)
		var position, age, havePosition = timecoder_get_position(&tc)

		if !havePosition {
			log.Debug("Signal but no lock", "pitch", fmt.Sprintf("%+.2f", pitch))
			continue
		}

		log.Info("Locked",
			"pitch", fmt.Sprintf("%+.2f", pitch),
			"position", position,
			"age", fmt.Sprintf("%.3fs", age),
			"safe", position >= 0 && uint32(position) <= timecoder_get_safe(&tc))
	}

	stream.Stop() //nolint:errcheck

	if *scopeOut != "" {
		var mon, size = timecoder_get_monitor(&tc)
		if err := write_pgm(*scopeOut, mon, size); err != nil {
			log.Error("Scope image", "err", err)
		} else {
			log.Info("Wrote scope image", "file", *scopeOut)
		}
	}

	timecoder_clear(&tc)
}

/* Binary PGM, one byte per pixel, as rendered by the monitor */

func write_pgm(path string, pixels []byte, size int) error {
	var f, createErr = os.Create(path)
	if createErr != nil {
		return createErr
	}

	var _, err = fmt.Fprintf(f, "P5\n%d %d\n255\n", size, size)
	if err == nil {
		_, err = f.Write(pixels)
	}

	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	return err
}
