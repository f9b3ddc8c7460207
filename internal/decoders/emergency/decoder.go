// Package emergency decodes emergency/priority status messages (format type
// code 28, subtype 1).
package emergency

import (
	"encoding/json"
	"fmt"
	"strings"

	"adsb_parser/internal/modes"
	"adsb_parser/internal/registry"
)

const (
	Name     = "emergency"
	TypeCode = 28
	Subtype  = 1
)

// State is the 3-bit emergency state.
type State uint8

var stateText = [8]string{
	"no emergency",
	"general emergency",
	"lifeguard/medical",
	"minimum fuel",
	"no communications",
	"unlawful interference",
	"downed aircraft",
	"reserved",
}

func (s State) String() string { return stateText[s&0x7] }

// Status is a decoded emergency/priority status message.
type Status struct {
	frame     *modes.Frame
	subtype   uint8
	state     State
	modeACode uint16
}

// Decode validates f as an emergency/priority status message.
func Decode(f *modes.Frame) (*Status, error) {
	if f.FormatTypeCode() != TypeCode {
		return nil, modes.WrongTypeCode(Name, f, TypeCode)
	}

	p := f.Payload()
	subtype := p[0] & 0x7
	if subtype != Subtype {
		return nil, modes.WrongSubtype(Name, f, subtype, Subtype)
	}

	return &Status{
		frame:     f,
		subtype:   subtype,
		state:     State(p[1] >> 5),
		modeACode: uint16(p[1]&0x1F)<<8 | uint16(p[2]),
	}, nil
}

func (s *Status) Frame() *modes.Frame { return s.frame }
func (s *Status) Type() string        { return Name }
func (s *Status) Subtype() uint8      { return s.subtype }
func (s *Status) State() State        { return s.state }

// ModeACode returns the raw 13-bit identity field as transmitted.
func (s *Status) ModeACode() uint16 { return s.modeACode }

// Squawk returns the four-digit Mode A code. The identity bits are laid out
// C1 A1 C2 A2 C4 A4 X B1 D1 B2 D2 B4 D4.
func (s *Status) Squawk() string {
	c := s.modeACode
	bit := func(n uint) uint16 { return (c >> n) & 1 }

	a := bit(7)<<2 | bit(9)<<1 | bit(11)
	b := bit(1)<<2 | bit(3)<<1 | bit(5)
	cc := bit(8)<<2 | bit(10)<<1 | bit(12)
	d := bit(0)<<2 | bit(2)<<1 | bit(4)
	return fmt.Sprintf("%d%d%d%d", a, b, cc, d)
}

func (s *Status) String() string {
	var b strings.Builder
	b.WriteString(s.frame.String())
	b.WriteString("\nEmergency/Priority Status:\n")
	fmt.Fprintf(&b, "\tSubtype:\t%d\n", s.subtype)
	fmt.Fprintf(&b, "\tEmergency state:\t%s\n", s.state)
	fmt.Fprintf(&b, "\tMode A code:\t%s", s.Squawk())
	return b.String()
}

// MarshalJSON renders the status for the CLI output.
func (s *Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ICAO      string `json:"icao"`
		Subtype   uint8  `json:"subtype"`
		State     uint8  `json:"emergency_state"`
		StateText string `json:"emergency_state_text"`
		Squawk    string `json:"squawk"`
	}{
		ICAO:      s.frame.ICAOHex(),
		Subtype:   s.subtype,
		State:     uint8(s.state),
		StateText: s.state.String(),
		Squawk:    s.Squawk(),
	})
}

// Decoder adapts Decode to registry.Decoder.
type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string             { return Name }
func (d *Decoder) FormatTypeCodes() []uint8 { return []uint8{TypeCode} }
func (d *Decoder) Priority() int            { return 10 }

func (d *Decoder) Decode(f *modes.Frame) (registry.Result, error) {
	s, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return s, nil
}
