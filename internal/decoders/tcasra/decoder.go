// Package tcasra decodes TCAS/ACAS Resolution Advisory reports (format type
// code 28, subtype 2). The format exists only in ADS-B version 2 and later.
package tcasra

import (
	"encoding/json"
	"fmt"
	"strings"

	"adsb_parser/internal/modes"
)

const (
	// TypeCode is the format type code of aircraft status messages.
	TypeCode = 28

	// Subtype identifies a resolution advisory among aircraft status messages.
	Subtype = 2
)

// ThreatType tells how ThreatIdentity is to be read.
type ThreatType uint8

const (
	ThreatNoIdentity  ThreatType = 0 // TID carries no identity data.
	ThreatModeSAddr   ThreatType = 1 // TID carries the threat's Mode S address.
	ThreatAltRangeBrg ThreatType = 2 // TID carries altitude, range and bearing.
	ThreatUnassigned  ThreatType = 3
)

func (t ThreatType) String() string {
	switch t {
	case ThreatNoIdentity:
		return "no identity data"
	case ThreatModeSAddr:
		return "Mode S address"
	case ThreatAltRangeBrg:
		return "altitude, range and bearing"
	default:
		return "not assigned"
	}
}

// Report is a decoded resolution advisory. Field references are to
// Annex 10 Vol IV 4.3.8.4.2.2.1.
type Report struct {
	frame                *modes.Frame
	subtype              uint8
	activeRA             uint16
	racRecord            uint8
	raTerminated         bool
	multiThreatEncounter bool
	threatType           ThreatType
	threatIdentity       uint32
}

// Decode validates f as a resolution advisory and extracts its fields.
// It fails with modes.ErrWrongTypeCode, then modes.ErrWrongSubtype; no
// partial report is ever returned.
func Decode(f *modes.Frame) (*Report, error) {
	if f.FormatTypeCode() != TypeCode {
		return nil, modes.WrongTypeCode(Name, f, TypeCode)
	}

	p := f.Payload()

	subtype := p[0] & 0x7
	if subtype != Subtype {
		return nil, modes.WrongSubtype(Name, f, subtype, Subtype)
	}

	// The trailing mask bounds TID to 26 bits whatever the shifts produce.
	tid := (uint32(p[6]) | uint32(p[5])<<8 | uint32(p[4])<<16 | uint32(p[4]&0x3)<<24) & 0x3FFFFFF

	return &Report{
		frame:                f,
		subtype:              subtype,
		activeRA:             ((uint16(p[2]) >> 2) | (uint16(p[1]) << 6)) & 0x3FFF,
		racRecord:            (((p[2] & 0x3) << 2) | (p[3] >> 6)) & 0xF,
		raTerminated:         p[3]&0x20 != 0,
		multiThreatEncounter: p[3]&0x10 != 0,
		threatType:           ThreatType((p[3] >> 2) & 0x3),
		threatIdentity:       tid,
	}, nil
}

// Frame returns the frame the report was decoded from.
func (r *Report) Frame() *modes.Frame { return r.frame }

// Type implements registry.Result.
func (r *Report) Type() string { return Name }

// Subtype is always 2.
func (r *Report) Subtype() uint8 { return r.subtype }

// ActiveRA returns the 14 bits describing the active resolution advisory (ARA).
func (r *Report) ActiveRA() uint16 { return r.activeRA }

// RACRecord returns the 4 bits of currently active RA complements.
func (r *Report) RACRecord() uint8 { return r.racRecord }

// RATerminated reports whether a previously generated RA has ceased.
func (r *Report) RATerminated() bool { return r.raTerminated }

// MultiThreatEncounter reports whether two or more threats are being processed.
func (r *Report) MultiThreatEncounter() bool { return r.multiThreatEncounter }

// ThreatType returns the threat type indicator. Check it before ThreatIdentity.
func (r *Report) ThreatType() ThreatType { return r.threatType }

// ThreatIdentity returns the 26-bit threat identity data (TID).
func (r *Report) ThreatIdentity() uint32 { return r.threatIdentity }

func (r *Report) String() string {
	var b strings.Builder
	b.WriteString(r.frame.String())
	b.WriteString("\nTCAS Resolution Advisory:\n")
	fmt.Fprintf(&b, "\tSubtype:\t%d\n", r.subtype)
	fmt.Fprintf(&b, "\tActive RAs:\t%d\n", r.activeRA)
	fmt.Fprintf(&b, "\tCurrent active RACs:\t%d\n", r.racRecord)
	fmt.Fprintf(&b, "\tRA terminated:\t%t\n", r.raTerminated)
	fmt.Fprintf(&b, "\tMultiple threats:\t%t\n", r.multiThreatEncounter)
	fmt.Fprintf(&b, "\tThreat type:\t%d\n", r.threatType)
	fmt.Fprintf(&b, "\tThreat identity:\t%d", r.threatIdentity)
	return b.String()
}

type reportJSON struct {
	ICAO                 string   `json:"icao"`
	Subtype              uint8    `json:"subtype"`
	ActiveRA             uint16   `json:"active_ra"`
	RACRecord            uint8    `json:"rac_record"`
	RATerminated         bool     `json:"ra_terminated"`
	MultiThreatEncounter bool     `json:"multi_threat_encounter"`
	ThreatType           uint8    `json:"threat_type"`
	ThreatTypeText       string   `json:"threat_type_text"`
	ThreatIdentity       uint32   `json:"threat_identity"`
	ThreatAddress        string   `json:"threat_address,omitempty"`
	ThreatRangeNM        *float64 `json:"threat_range_nm,omitempty"`
	ThreatBearingDeg     *int     `json:"threat_bearing_deg,omitempty"`
}

// MarshalJSON renders the report for the CLI output.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		ICAO:                 r.frame.ICAOHex(),
		Subtype:              r.subtype,
		ActiveRA:             r.activeRA,
		RACRecord:            r.racRecord,
		RATerminated:         r.raTerminated,
		MultiThreatEncounter: r.multiThreatEncounter,
		ThreatType:           uint8(r.threatType),
		ThreatTypeText:       r.threatType.String(),
		ThreatIdentity:       r.threatIdentity,
	}
	if addr, ok := r.ThreatAddress(); ok {
		out.ThreatAddress = fmt.Sprintf("%06x", addr)
	}
	if nm, ok := r.ThreatRangeNM(); ok {
		out.ThreatRangeNM = &nm
	}
	if deg, ok := r.ThreatBearingDeg(); ok {
		out.ThreatBearingDeg = &deg
	}
	return json.Marshal(out)
}
