package engine

import (
	"fmt"
	"io"
)

// logWriter is the destination for package-level diagnostics, in the style
// of the teacher pack's game.SetLogWriter/Logf (pthm-soup/game/logging.go).
// The simulation core itself never calls Logf on the hot path; it exists so
// a headless harness can redirect worker-failure and configuration-
// rejection reports without pulling in a structured logging library no
// example in the pack reaches for at this layer.
var logWriter io.Writer

// SetLogWriter redirects Logf output. A nil writer restores the default
// (stdout via fmt.Println).
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted diagnostic line.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
		return
	}
	fmt.Println(msg)
}
