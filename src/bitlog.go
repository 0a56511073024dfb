package xwax

/*------------------------------------------------------------------
 *
 * Purpose:	Save the decoded bit stream to a file.
 *
 * Description:	One ASCII '0' or '1' per decoded bit, straight from
 *		the decoder's log sink.
 *
 *		There are two alternatives here.
 *
 *		A full file path; everything goes to that one file.
 *
 *		A directory; daily names will be created there.
 *
 *		The file is kept open.  We don't open/close for every
 *		bit.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lestrrat-go/strftime"
)

/* 'strftime' format for the daily file names */

const BITLOG_DAILY_PATTERN = "%Y-%m-%d.bits"

var bitlog_pattern, _ = strftime.New(BITLOG_DAILY_PATTERN)

type bitlog_t struct {
	daily_names bool
	path        string /* directory, or full name when not daily */

	fp         *os.File
	open_fname string /* name of the currently open daily file */
}

/*------------------------------------------------------------------
 *
 * Name:	bitlog_open
 *
 * Purpose:	Open a bit log suitable for timecoder_set_log.
 *
 * Inputs:	daily_names	- True if daily names should be
 *				  generated.  In this case path is a
 *				  directory.  When false, path is the
 *				  file name.
 *
 *		path		- Log file name or just directory.
 *				  Use "." for current directory.
 *
 * Returns:	The log, or an error if the location is unusable.
 *		Write failures after open are swallowed; the log is
 *		advisory.
 *
 *---------------------------------------------------------------*/

func bitlog_open(daily_names bool, path string) (*bitlog_t, error) {
	var bl = &bitlog_t{
		daily_names: daily_names,
		path:        path,
	}

	if daily_names {
		var stat, statErr = os.Stat(path)

		if statErr == nil {
			if !stat.IsDir() {
				return nil, fmt.Errorf("bit log location %q is not a directory", path)
			}
		} else {
			// Doesn't exist.  Try to create it.
			// The parent directory must exist.
			// We don't create multiple levels like "mkdir -p".
			if mkdirErr := os.Mkdir(path, 0755); mkdirErr != nil {
				return nil, fmt.Errorf("bit log location %q: %w", path, mkdirErr)
			}
		}

		return bl, nil
	}

	var fp, openErr = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if openErr != nil {
		return nil, fmt.Errorf("bit log %q: %w", path, openErr)
	}

	bl.fp = fp

	return bl, nil
}

/* io.Writer for the decoder's log sink.  Rotates to a new file when
 * the day changes. */

func (bl *bitlog_t) Write(p []byte) (int, error) {
	if bl.daily_names {
		var fname = bitlog_pattern.FormatString(time.Now())

		if fname != bl.open_fname {
			if bl.fp != nil {
				bl.fp.Close() //nolint:errcheck
				bl.fp = nil
			}

			var fp, openErr = os.OpenFile(filepath.Join(bl.path, fname),
				os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
			if openErr != nil {
				// Swallowed; try again on the next bit.
				return len(p), nil
			}

			bl.fp = fp
			bl.open_fname = fname
		}
	}

	if bl.fp != nil {
		bl.fp.Write(p) //nolint:errcheck
	}

	return len(p), nil
}

func bitlog_close(bl *bitlog_t) {
	if bl.fp != nil {
		bl.fp.Close() //nolint:errcheck
		bl.fp = nil
	}

	bl.open_fname = ""
}
