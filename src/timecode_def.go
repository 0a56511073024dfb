package xwax

/*------------------------------------------------------------------
 *
 * Purpose:	Timecode definitions.
 *
 *		Each pressed timecode format is described by its LFSR
 *		parameters and cycle counts.  The five shipped formats
 *		are the ones supported by the xwax C code;
 *		additional definitions can be loaded from a YAML file.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const POLARITY_NEGATIVE = 0
const POLARITY_POSITIVE = 1

type timecode_def_t struct {
	name string
	desc string

	bits       int /* number of bits in string */
	resolution int /* wave cycles per second */
	taps       uint32
	polarity   int /* cycle begins POLARITY_POSITIVE or POLARITY_NEGATIVE */

	seed   uint32 /* LFSR value at timecode zero */
	length uint32 /* in cycles */
	safe   uint32 /* last 'safe' timecode number (for auto disconnect) */

	lookup []int32 /* built lookup table, or nil */
}

/* Tap masks are the sum of 1<<n over the tap positions listed in the
 * xwax C code. */

var timecode_defs = []*timecode_def_t{
	{
		name:       "serato_2a",
		desc:       "Serato 2nd Ed., side A",
		resolution: 1000,
		polarity:   POLARITY_POSITIVE,
		bits:       20,
		seed:       0x59017,
		taps:       0x361e4, /* {2, 5, 6, 7, 8, 13, 14, 16, 17} */
		length:     712000,
		safe:       707000,
	},
	{
		name:       "serato_2b",
		desc:       "Serato 2nd Ed., side B",
		resolution: 1000,
		polarity:   POLARITY_POSITIVE,
		bits:       20,
		seed:       0x8f3c6,
		taps:       0x4f0d8, /* {3, 4, 6, 7, 12, 13, 14, 15, 18}, reverse of side A */
		length:     922000,
		safe:       917000,
	},
	{
		name:       "serato_cd",
		desc:       "Serato CD",
		resolution: 1000,
		polarity:   POLARITY_POSITIVE,
		bits:       20,
		seed:       0x84c0c,
		taps:       0x34d54, /* {2, 4, 6, 8, 10, 11, 14, 16, 17} */
		length:     940000,
		safe:       930000,
	},
	{
		name:       "traktor_a",
		desc:       "Traktor Scratch, side A",
		resolution: 2000,
		polarity:   POLARITY_POSITIVE,
		bits:       23,
		seed:       0x134503,
		taps:       0x041040, /* {6, 12, 18} */
		length:     1500000,
		safe:       1480000,
	},
	{
		name:       "traktor_b",
		desc:       "Traktor Scratch, side B",
		resolution: 2000,
		polarity:   POLARITY_POSITIVE,
		bits:       23,
		seed:       0x32066c,
		taps:       0x041040, /* {6, 12, 18} */
		length:     2110000,
		safe:       2090000,
	},
}

/*------------------------------------------------------------------
 *
 * Name:	timecode_def_by_name
 *
 * Purpose:	Find a timecode definition.
 *
 * Inputs:	name	- eg. "serato_2a"
 *
 * Returns:	The definition, which remains owned by the registry,
 *		or ErrUnknownTimecode.
 *
 *		The returned definition is immutable and may be shared
 *		by any number of timecoders.  Call timecode_def_build
 *		before using it with a decoder.
 *
 *---------------------------------------------------------------*/

func timecode_def_by_name(name string) (*timecode_def_t, error) {
	for _, def := range timecode_defs {
		if def.name == name {
			return def, nil
		}
	}

	return nil, fmt.Errorf("timecode definition %q: %w", name, ErrUnknownTimecode)
}

/*------------------------------------------------------------------
 *
 * Name:	timecode_defs_load
 *
 * Purpose:	Register additional timecode definitions from a YAML
 *		file.
 *
 * Inputs:	path	- File of definitions, eg.
 *
 *			  - name: mytimecode_a
 *			    desc: My pressing, side A
 *			    bits: 20
 *			    resolution: 1000
 *			    polarity: positive
 *			    seed: 0x59017
 *			    taps: [2, 5, 6, 7, 8, 13, 14, 16, 17]
 *			    length: 712000
 *			    safe: 707000
 *
 * Returns:	Number of definitions added, or an error.  A malformed
 *		entry rejects the whole file and registers nothing.
 *
 *---------------------------------------------------------------*/

type yaml_timecode_def_t struct {
	Name       string `yaml:"name"`
	Desc       string `yaml:"desc"`
	Bits       int    `yaml:"bits"`
	Resolution int    `yaml:"resolution"`
	Polarity   string `yaml:"polarity"`
	Seed       uint32 `yaml:"seed"`
	Taps       []int  `yaml:"taps"`
	Length     uint32 `yaml:"length"`
	Safe       uint32 `yaml:"safe"`
}

func timecode_defs_load(path string) (int, error) {
	var raw, readErr = os.ReadFile(path)
	if readErr != nil {
		return 0, fmt.Errorf("timecode definitions: %w", readErr)
	}

	var entries []yaml_timecode_def_t
	if yamlErr := yaml.Unmarshal(raw, &entries); yamlErr != nil {
		return 0, fmt.Errorf("timecode definitions %s: %w", path, yamlErr)
	}

	var defs []*timecode_def_t
	var seen = make(map[string]bool)

	for _, entry := range entries {
		var def, convErr = entry.to_def()
		if convErr != nil {
			return 0, fmt.Errorf("timecode definitions %s: %w", path, convErr)
		}

		if existing, _ := timecode_def_by_name(def.name); existing != nil || seen[def.name] {
			return 0, fmt.Errorf("timecode definitions %s: %q is already registered", path, def.name)
		}
		seen[def.name] = true

		defs = append(defs, def)
	}

	timecode_defs = append(timecode_defs, defs...)

	return len(defs), nil
}

func (entry yaml_timecode_def_t) to_def() (*timecode_def_t, error) {
	if entry.Name == "" {
		return nil, fmt.Errorf("definition with no name")
	}

	if entry.Bits < 1 || entry.Bits > MAX_BITS {
		return nil, fmt.Errorf("%q: bits %d out of range 1..%d", entry.Name, entry.Bits, MAX_BITS)
	}

	var polarity int
	switch entry.Polarity {
	case "positive":
		polarity = POLARITY_POSITIVE
	case "negative":
		polarity = POLARITY_NEGATIVE
	default:
		return nil, fmt.Errorf("%q: polarity %q is not \"positive\" or \"negative\"", entry.Name, entry.Polarity)
	}

	var mask = (uint32(1) << entry.Bits) - 1

	var taps uint32
	for _, tap := range entry.Taps {
		if tap < 1 || tap >= entry.Bits {
			return nil, fmt.Errorf("%q: tap %d out of range 1..%d", entry.Name, tap, entry.Bits-1)
		}
		taps |= 1 << tap
	}

	if entry.Seed&mask != entry.Seed {
		return nil, fmt.Errorf("%q: seed %#x wider than %d bits", entry.Name, entry.Seed, entry.Bits)
	}

	if entry.Resolution < 1 {
		return nil, fmt.Errorf("%q: resolution %d", entry.Name, entry.Resolution)
	}

	if entry.Length == 0 || entry.Safe >= entry.Length {
		return nil, fmt.Errorf("%q: safe %d not within length %d", entry.Name, entry.Safe, entry.Length)
	}

	return &timecode_def_t{
		name:       entry.Name,
		desc:       entry.Desc,
		bits:       entry.Bits,
		resolution: entry.Resolution,
		polarity:   polarity,
		seed:       entry.Seed,
		taps:       taps,
		length:     entry.Length,
		safe:       entry.Safe,
	}, nil
}
