package verdict

import "fmt"

// Verdict is the tri-state outcome of a boot attempt. The values are the
// wire codes emitted to the halt sink and patched into the boot image, so
// converting a Verdict to its code is a plain byte conversion.
type Verdict byte

const (
	Indeterminate Verdict = 0x00
	Confirmed     Verdict = 0x55
	Rejected      Verdict = 0xAA
)

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v {
	case Confirmed:
		return "confirmed"
	case Rejected:
		return "rejected"
	case Indeterminate:
		return "indeterminate"
	}
	return fmt.Sprintf("verdict(0x%02X)", byte(v))
}

// Code returns the wire code for the halt sink.
func (v Verdict) Code() byte {
	return byte(v)
}

// ExitStatus maps the verdict onto a process exit status. Only a Confirmed
// boot exits zero.
func (v Verdict) ExitStatus() int {
	if v == Confirmed {
		return 0
	}
	return 1
}
