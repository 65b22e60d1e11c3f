package sector

import (
	"fmt"
	"io"
	"os"

	"github.com/OWNER/ringboot/internal/verdict"
)

// Size is the total image size in bytes.
const Size = 512

// Fixed layout offsets.
const (
	codeOffset      = 8
	bannerOffset    = 0x60
	signatureOffset = Size - 2
)

// RIFT header constants.
const (
	headerVersion  = 0x01
	headerReserved = 0x00
	headerChecksum = 0xFE
	headerFlags    = 0x01
)

// magic is the 4-byte RIFT header tag.
var magic = [4]byte{'N', 'X', 'O', 'B'}

// stub is the real-mode bring-up code placed at codeOffset: clear
// interrupts, zero the segment registers, teletype-print the banner, then
// move the verdict code into AL and halt.
var stub = []byte{
	0xFA,             // cli
	0x31, 0xC0,       // xor ax, ax
	0x8E, 0xD8,       // mov ds, ax
	0x8E, 0xC0,       // mov es, ax
	0xBC, 0x00, 0x7C, // mov sp, 0x7C00
	0xBE, 0x60, 0x7C, // mov si, banner
	0xB4, 0x0E,       // mov ah, 0x0E
	0xAC,             // lodsb
	0x08, 0xC0,       // or al, al
	0x74, 0x04,       // jz done
	0xCD, 0x10,       // int 0x10
	0xEB, 0xF5,       // jmp print loop
	0xB0, 0x00,       // mov al, <verdict code>
	0xF4,             // hlt
	0xEB, 0xFE,       // jmp $
}

// verdictStubIndex is the position of the mov al immediate inside stub.
const verdictStubIndex = 25

// banner is the NUL-terminated text the stub prints at boot.
const banner = "=== RINGBOOT ===\r\n" +
	"[Phase 1] SPARSE\r\n" +
	"[Phase 2] REMEMBER\r\n" +
	"[Phase 3] ACTIVE\r\n" +
	"[Phase 4] VERIFY\r\n\x00"

// Image is one serialized boot sector.
type Image [Size]byte

// Encode produces the boot image for a verdict. The verdict's wire code is
// patched into the stub's halt immediate.
func Encode(v verdict.Verdict) Image {
	var img Image

	copy(img[0:4], magic[:])
	img[4] = headerVersion
	img[5] = headerReserved
	img[6] = headerChecksum
	img[7] = headerFlags

	copy(img[codeOffset:], stub)
	img[codeOffset+verdictStubIndex] = v.Code()

	copy(img[bannerOffset:], banner)

	img[signatureOffset] = 0x55
	img[signatureOffset+1] = 0xAA

	return img
}

// Write serializes the image for a verdict to w.
func Write(w io.Writer, v verdict.Verdict) error {
	img := Encode(v)
	if _, err := w.Write(img[:]); err != nil {
		return fmt.Errorf("writing boot image: %w", err)
	}
	return nil
}

// WriteFile serializes the image for a verdict to a file.
func WriteFile(path string, v verdict.Verdict) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating boot image: %w", err)
	}
	if err := Write(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Checksum folds data with XOR, the header checksum convention.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}
