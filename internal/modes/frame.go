// Package modes provides the Mode S extended squitter frame shared by every
// message decoder.
package modes

import (
	"encoding/hex"
	"fmt"
	"strings"

	"adsb_parser/internal/crc"
)

const (
	// ReplyBytes is the size of a Mode S long reply (112 bits).
	ReplyBytes = 14

	// PayloadBytes is the size of the ME field carried by an extended squitter.
	PayloadBytes = 7

	// ReplyHexLen is the number of hex characters DecodeFrame accepts.
	ReplyHexLen = 2 * ReplyBytes
)

// Downlink formats carrying an extended squitter.
const (
	DFExtendedSquitter    = 17 // Transponder-based ADS-B.
	DFNonTransponderReply = 18 // Non-transponder devices and TIS-B.
)

// Frame is a decoded extended squitter. It is immutable once built; every
// accessor returns a copy.
type Frame struct {
	raw     string
	reply   [ReplyBytes]byte
	df      uint8
	ca      uint8
	payload [PayloadBytes]byte
	ftc     uint8
}

// DecodeFrame validates raw and builds a Frame. raw is 28 hex characters,
// optionally wrapped in AVR markers ("*...;") and surrounding whitespace.
func DecodeFrame(raw string) (*Frame, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "*")
	s = strings.TrimSuffix(s, ";")

	if len(s) != ReplyHexLen {
		return nil, &FormatError{
			Raw:    raw,
			Reason: fmt.Sprintf("length %d, want %d hex characters", len(s), ReplyHexLen),
		}
	}

	f := &Frame{raw: raw}
	for i := 0; i < ReplyBytes; i++ {
		hi, lo := s[2*i], s[2*i+1]
		if !crc.IsHexDigit(hi) || !crc.IsHexDigit(lo) {
			return nil, &FormatError{
				Raw:    raw,
				Reason: fmt.Sprintf("invalid hex at offset %d", 2*i),
			}
		}
		f.reply[i] = crc.HexToByte(hi, lo)
	}

	f.df = f.reply[0] >> 3
	f.ca = f.reply[0] & 0x7
	if f.df != DFExtendedSquitter && f.df != DFNonTransponderReply {
		return nil, &FormatError{
			Raw:    raw,
			Reason: fmt.Sprintf("downlink format %d is not an extended squitter", f.df),
		}
	}

	copy(f.payload[:], f.reply[4:4+PayloadBytes])
	f.ftc = f.payload[0] >> 3

	return f, nil
}

// Raw returns the input string exactly as given to DecodeFrame.
func (f *Frame) Raw() string { return f.raw }

// Reply returns all 14 bytes of the reply.
func (f *Frame) Reply() [ReplyBytes]byte { return f.reply }

// DownlinkFormat returns the 5-bit DF field (17 or 18).
func (f *Frame) DownlinkFormat() uint8 { return f.df }

// Capabilities returns the 3 bits following the DF: transponder capability
// for DF17, control field for DF18.
func (f *Frame) Capabilities() uint8 { return f.ca }

// ICAO24 returns the announced 24-bit address.
func (f *Frame) ICAO24() [3]byte {
	return [3]byte{f.reply[1], f.reply[2], f.reply[3]}
}

// ICAOHex returns the address as six lowercase hex digits.
func (f *Frame) ICAOHex() string {
	a := f.ICAO24()
	return hex.EncodeToString(a[:])
}

// Payload returns the 56-bit ME field. Byte 0 holds the format type code
// and the subtype.
func (f *Frame) Payload() [PayloadBytes]byte { return f.payload }

// FormatTypeCode returns the top 5 bits of the ME field.
func (f *Frame) FormatTypeCode() uint8 { return f.ftc }

// Parity returns the transmitted parity field.
func (f *Frame) Parity() [3]byte {
	return [3]byte{f.reply[11], f.reply[12], f.reply[13]}
}

// CalculatedParity returns the CRC-24 over the first 88 bits.
func (f *Frame) CalculatedParity() [3]byte {
	return crc.Calculate24ModeS(f.reply[:ReplyBytes-3])
}

// ParityOK reports whether the transmitted parity matches. Decoders do not
// enforce it.
func (f *Frame) ParityOK() bool {
	return crc.Verify24ModeS(f.reply[:])
}

func (f *Frame) String() string {
	parity := f.Parity()
	calc := f.CalculatedParity()

	var b strings.Builder
	b.WriteString("Mode S Reply:\n")
	fmt.Fprintf(&b, "\tDownlink format:\t%d\n", f.df)
	fmt.Fprintf(&b, "\tCapabilities:\t%d\n", f.ca)
	fmt.Fprintf(&b, "\tICAO 24-bit address:\t%s\n", f.ICAOHex())
	fmt.Fprintf(&b, "\tParity:\t%s\n", hex.EncodeToString(parity[:]))
	fmt.Fprintf(&b, "\tCalculated parity:\t%s\n", hex.EncodeToString(calc[:]))
	b.WriteString("Extended Squitter:\n")
	fmt.Fprintf(&b, "\tFormat type code:\t%d\n", f.ftc)
	fmt.Fprintf(&b, "\tMessage:\t%s", hex.EncodeToString(f.payload[:]))
	return b.String()
}
