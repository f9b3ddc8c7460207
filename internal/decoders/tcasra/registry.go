package tcasra

import (
	"adsb_parser/internal/modes"
	"adsb_parser/internal/registry"
)

// Name is the registry name and result type of resolution advisories.
const Name = "tcas_ra"

// Decoder adapts Decode to registry.Decoder.
type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string             { return Name }
func (d *Decoder) FormatTypeCodes() []uint8 { return []uint8{TypeCode} }
func (d *Decoder) Priority() int            { return 20 }

func (d *Decoder) Decode(f *modes.Frame) (registry.Result, error) {
	r, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return r, nil
}
