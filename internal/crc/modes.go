// Package crc provides parity calculation and hex helpers for Mode S replies.
package crc

// PolyModeS is the Mode S generator polynomial 0x1FFF409 without its x^24 term.
const PolyModeS uint32 = 0xFFF409

// table24ModeS is the MSB-first lookup table for PolyModeS.
var table24ModeS = makeTable24(PolyModeS)

func makeTable24(poly uint32) [256]uint32 {
	var table [256]uint32
	for i := range table {
		c := uint32(i) << 16
		for j := 0; j < 8; j++ {
			if c&0x800000 != 0 {
				c = (c << 1) ^ poly
			} else {
				c <<= 1
			}
		}
		table[i] = c & 0xFFFFFF
	}
	return table
}

// CRC24ModeS calculates the 24-bit Mode S parity over data.
//
// For calculation: parity = CRC24ModeS(reply[:len(reply)-3])
// For verification: CRC24ModeS(reply) == 0 for DF17/DF18 replies, whose
// parity field is not overlaid with an address.
func CRC24ModeS(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = ((crc << 8) ^ table24ModeS[byte(crc>>16)^b]) & 0xFFFFFF
	}
	return crc
}

// Calculate24ModeS computes the 3-byte parity for a reply without its parity
// field. Returns the parity big-endian.
func Calculate24ModeS(data []byte) [3]byte {
	crc := CRC24ModeS(data)
	return [3]byte{byte(crc >> 16), byte(crc >> 8), byte(crc)}
}

// Verify24ModeS checks a complete reply (parity included) whose parity is
// plain CRC, as for extended squitters.
func Verify24ModeS(reply []byte) bool {
	if len(reply) < 4 {
		return false
	}
	return CRC24ModeS(reply) == 0
}

// IsHexDigit returns true if c is a valid hexadecimal digit (0-9, A-F, a-f).
func IsHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

// HexToByte converts two hex characters to a byte.
// Assumes both characters are valid hex digits (use IsHexDigit to verify first).
func HexToByte(high, low byte) byte {
	return (nibble(high) << 4) | nibble(low)
}

func nibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return c - 'a' + 10
	}
}
