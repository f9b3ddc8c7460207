package tcasra

// ThreatAddress returns the Mode S address held in TID. ok is false unless
// the threat type is ThreatModeSAddr.
func (r *Report) ThreatAddress() (addr uint32, ok bool) {
	if r.threatType != ThreatModeSAddr {
		return 0, false
	}
	return r.threatIdentity & 0xFFFFFF, true
}

// ThreatAltitudeCode returns TIDA, the 13-bit Mode C altitude code of the
// threat (TID bits 25..13).
func (r *Report) ThreatAltitudeCode() (uint16, bool) {
	if r.threatType != ThreatAltRangeBrg {
		return 0, false
	}
	return uint16(r.threatIdentity>>13) & 0x1FFF, true
}

// ThreatRangeCode returns TIDR, the 7-bit range code (TID bits 12..6).
func (r *Report) ThreatRangeCode() (uint8, bool) {
	if r.threatType != ThreatAltRangeBrg {
		return 0, false
	}
	return uint8(r.threatIdentity>>6) & 0x7F, true
}

// ThreatBearingCode returns TIDB, the 6-bit bearing code (TID bits 5..0).
func (r *Report) ThreatBearingCode() (uint8, bool) {
	if r.threatType != ThreatAltRangeBrg {
		return 0, false
	}
	return uint8(r.threatIdentity) & 0x3F, true
}

// ThreatRangeNM converts TIDR to nautical miles. Code 1 means below 0.05 NM
// and code 127 above 12.55 NM; both are reported at the bound. Code 0 is no
// estimate.
func (r *Report) ThreatRangeNM() (float64, bool) {
	code, ok := r.ThreatRangeCode()
	if !ok {
		return 0, false
	}
	switch {
	case code == 0:
		return 0, false
	case code == 1:
		return 0.05, true
	case code == 127:
		return 12.6, true
	default:
		return float64(code-1) / 10, true
	}
}

// ThreatBearingDeg converts TIDB to degrees relative to own aircraft
// heading, in 6 degree steps. Codes 0 and 61..63 carry no bearing.
func (r *Report) ThreatBearingDeg() (int, bool) {
	code, ok := r.ThreatBearingCode()
	if !ok || code == 0 || code > 60 {
		return 0, false
	}
	return 6 * int(code-1), true
}
