// Package sector serializes the fixed-layout 512-byte boot image: an 8-byte
// RIFT header, a real-mode stub whose final halt immediate carries the boot
// verdict, a banner text region, and the 0x55 0xAA signature trailer. The
// engine hands a verdict over this boundary and knows nothing else about the
// layout.
package sector
