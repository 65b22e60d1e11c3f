// Package halt defines the process-halt sink the boot sequence terminates
// through. The engine only ever hands over a verdict wire code; what
// "halting" means (exiting the process, recording for a test) belongs to
// the implementation.
package halt

import (
	"fmt"
	"io"
	"os"

	"github.com/OWNER/ringboot/internal/verdict"
)

// Halter terminates a boot attempt with a verdict wire code.
type Halter interface {
	Halt(code byte)
}

// OS writes the halt code to its output and exits the process. The exit
// status is 0 only for a Confirmed code; every other code exits 1.
type OS struct {
	Out io.Writer

	// exit is swappable for tests.
	exit func(int)
}

// NewOS creates a process-exiting halter writing its final line to out.
func NewOS(out io.Writer) *OS {
	return &OS{Out: out, exit: os.Exit}
}

// Halt implements Halter.
func (h *OS) Halt(code byte) {
	fmt.Fprintf(h.Out, "HALT CODE: 0x%02X\n", code)
	h.exit(verdict.Verdict(code).ExitStatus())
}

// Recorder captures halt codes for tests instead of exiting.
type Recorder struct {
	Codes []byte
}

// Halt implements Halter.
func (r *Recorder) Halt(code byte) {
	r.Codes = append(r.Codes, code)
}

// Last returns the most recent halt code, or ok=false if none was recorded.
func (r *Recorder) Last() (byte, bool) {
	if len(r.Codes) == 0 {
		return 0, false
	}
	return r.Codes[len(r.Codes)-1], true
}
