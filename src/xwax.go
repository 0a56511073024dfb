// Package xwax is a Go port of the xwax timecoder, the part of a
// digital vinyl system which recovers playback position and pitch from
// the timecode signal pressed on a control record.
package xwax
