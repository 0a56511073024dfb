package xwax

// Lightweight ANSI colour for the console report stream.

import (
	"fmt"
)

type dw_color_e int

const (
	DW_COLOR_INFO    dw_color_e = iota /* default */
	DW_COLOR_ERROR                     /* red */
	DW_COLOR_REC                       /* green */
	DW_COLOR_DECODED                   /* blue */
	DW_COLOR_DEBUG                     /* dark green */
)

var color_sgr = map[dw_color_e]string{
	DW_COLOR_INFO:    "\x1b[0m",
	DW_COLOR_ERROR:   "\x1b[0;31m",
	DW_COLOR_REC:     "\x1b[0;32m",
	DW_COLOR_DECODED: "\x1b[0;34m",
	DW_COLOR_DEBUG:   "\x1b[0;2;32m",
}

var _text_color_level int

func text_color_init(level int) {
	_text_color_level = level
}

func text_color_set(c dw_color_e) {
	if _text_color_level == 0 {
		return
	}

	fmt.Print(color_sgr[c])
}

func dw_printf(format string, a ...any) (int, error) {
	return fmt.Printf(format, a...)
}
