package buffer

import (
	"github.com/dshills/pieceengine/internal/tuning"
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithEOL sets the buffer's normalization target line ending. eol must be
// "\n" or "\r\n"; any other value is ignored, leaving the current setting
// ("\n" unless an earlier option changed it).
func WithEOL(eol string) Option {
	return func(b *Buffer) {
		if eol == "\n" || eol == "\r\n" {
			b.eol = eol
		}
	}
}

// WithLF configures the buffer to normalize to Unix line endings.
func WithLF() Option { return WithEOL("\n") }

// WithCRLF configures the buffer to normalize to Windows line endings.
func WithCRLF() Option { return WithEOL("\r\n") }

// WithTabWidth sets the buffer's tab width, an editor-display concern the
// piece table itself has no opinion on.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithTuning overrides the tree's tuning knobs (average buffer size, EOL
// normalization chunk bounds, search cache depth).
func WithTuning(cfg tuning.Config) Option {
	return func(b *Buffer) {
		b.tuning = cfg
	}
}

// WithDetectedEOL sets the buffer's normalization target based on the most
// common line ending already present in text. Call this before the buffer
// is built from that same text.
func WithDetectedEOL(text string) Option {
	return WithEOL(DetectEOL(text))
}

// DetectEOL returns "\r\n" or "\n" based on the most common line ending in
// text, preferring "\n" when there is no line break at all or a tie.
func DetectEOL(text string) string {
	var lf, crlf int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			}
		case '\n':
			lf++
		}
	}
	if crlf > lf {
		return "\r\n"
	}
	return "\n"
}
