// Package devlog provides per-device mask-gated debug logging, grounded
// on the teacher's util/debug/debug.go Debugf/DebugDevf family: a debug
// message only prints when the caller's level bit is set in the
// device's mask. ASOS has no channel-number concept, so only the
// module-named variant is kept; it is repurposed to log through slog
// rather than a dedicated debug file so it composes with kernlog.
package devlog

import (
	"fmt"
	"log/slog"
)

// Mask bits a device can be individually enabled for.
const (
	MaskIO    = 1 << 0
	MaskIRQ   = 1 << 1
	MaskState = 1 << 2
)

// Logger gates slog.Debug calls behind a per-device bitmask.
type Logger struct {
	module string
	mask   int
}

// New returns a Logger for module, initially silent (mask 0).
func New(module string) *Logger {
	return &Logger{module: module}
}

// SetMask replaces the mask: the given bits are enabled and all others
// disabled.
func (l *Logger) SetMask(mask int) { l.mask = mask }

// Debugf logs a formatted message if any bit in level is set in the
// logger's mask, per the teacher's Debugf(module, mask, level, ...).
func (l *Logger) Debugf(level int, format string, args ...any) {
	if l.mask&level == 0 {
		return
	}
	slog.Debug(l.module + ": " + fmt.Sprintf(format, args...))
}
