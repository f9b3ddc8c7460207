// Package identification decodes aircraft identification and category
// messages (format type codes 1 to 4).
package identification

import (
	"encoding/json"
	"fmt"
	"strings"

	"adsb_parser/internal/modes"
	"adsb_parser/internal/registry"
)

const Name = "identification"

// charset maps the 6-bit ICAO character code. '#' marks unassigned codes.
const charset = "#ABCDEFGHIJKLMNOPQRSTUVWXYZ##### ###############0123456789######"

// Emitter category sets indexed by format type code, then category.
var categories = map[uint8][8]string{
	4: {
		"No ADS-B emitter category information",
		"Light (< 15500 lbs)",
		"Small (15500 to 75000 lbs)",
		"Large (75000 to 300000 lbs)",
		"High vortex large",
		"Heavy (> 300000 lbs)",
		"High performance (> 5g acceleration and > 400 kts)",
		"Rotorcraft",
	},
	3: {
		"No ADS-B emitter category information",
		"Glider/sailplane",
		"Lighter-than-air",
		"Parachutist/skydiver",
		"Ultralight/hang-glider/paraglider",
		"Reserved",
		"Unmanned aerial vehicle",
		"Space/trans-atmospheric vehicle",
	},
	2: {
		"No ADS-B emitter category information",
		"Surface vehicle - emergency vehicle",
		"Surface vehicle - service vehicle",
		"Point obstacle (includes tethered balloons)",
		"Cluster obstacle",
		"Line obstacle",
		"Reserved",
		"Reserved",
	},
	1: {
		"Reserved", "Reserved", "Reserved", "Reserved",
		"Reserved", "Reserved", "Reserved", "Reserved",
	},
}

// Identification is a decoded identification and category message.
type Identification struct {
	frame    *modes.Frame
	category uint8
	callsign string
}

// Decode validates f as an identification message.
func Decode(f *modes.Frame) (*Identification, error) {
	ftc := f.FormatTypeCode()
	if ftc < 1 || ftc > 4 {
		return nil, modes.WrongTypeCode(Name, f, 4)
	}

	p := f.Payload()
	bits := uint64(p[1])<<40 | uint64(p[2])<<32 | uint64(p[3])<<24 |
		uint64(p[4])<<16 | uint64(p[5])<<8 | uint64(p[6])

	call := make([]byte, 8)
	for i := range call {
		call[i] = charset[(bits>>(42-6*i))&0x3F]
	}

	return &Identification{
		frame:    f,
		category: p[0] & 0x7,
		callsign: strings.TrimRight(string(call), " "),
	}, nil
}

func (m *Identification) Frame() *modes.Frame { return m.frame }
func (m *Identification) Type() string        { return Name }

// Category returns the 3-bit emitter category within the set selected by the
// format type code.
func (m *Identification) Category() uint8 { return m.category }

// Callsign returns up to eight characters with trailing spaces removed.
func (m *Identification) Callsign() string { return m.callsign }

// CategoryDescription returns the emitter category in words.
func (m *Identification) CategoryDescription() string {
	return categories[m.frame.FormatTypeCode()][m.category]
}

func (m *Identification) String() string {
	var b strings.Builder
	b.WriteString(m.frame.String())
	b.WriteString("\nIdentification:\n")
	fmt.Fprintf(&b, "\tEmitter category:\t%s\n", m.CategoryDescription())
	fmt.Fprintf(&b, "\tCallsign:\t%s", m.callsign)
	return b.String()
}

// MarshalJSON renders the identification for the CLI output.
func (m *Identification) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ICAO         string `json:"icao"`
		Callsign     string `json:"callsign"`
		Category     uint8  `json:"category"`
		CategoryText string `json:"category_text"`
	}{
		ICAO:         m.frame.ICAOHex(),
		Callsign:     m.callsign,
		Category:     m.category,
		CategoryText: m.CategoryDescription(),
	})
}

// Decoder adapts Decode to registry.Decoder.
type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string             { return Name }
func (d *Decoder) FormatTypeCodes() []uint8 { return []uint8{1, 2, 3, 4} }
func (d *Decoder) Priority() int            { return 10 }

func (d *Decoder) Decode(f *modes.Frame) (registry.Result, error) {
	m, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return m, nil
}
