package tcasra

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"adsb_parser/internal/modes"
)

// rawFor builds a DF17 reply from address 4840D6 carrying payload.
// Parity is left zero; decoders do not check it.
func rawFor(p [modes.PayloadBytes]byte) string {
	return fmt.Sprintf("8D4840D6%X000000", p[:])
}

func frameFor(t *testing.T, p [modes.PayloadBytes]byte) *modes.Frame {
	t.Helper()
	f, err := modes.DecodeFrame(rawFor(p))
	if err != nil {
		t.Fatalf("DecodeFrame returned error: %v", err)
	}
	return f
}

type fields struct {
	activeRA             uint16
	racRecord            uint8
	raTerminated         bool
	multiThreatEncounter bool
	threatType           ThreatType
	threatIdentity       uint32
}

func fieldsOf(r *Report) fields {
	return fields{
		activeRA:             r.ActiveRA(),
		racRecord:            r.RACRecord(),
		raTerminated:         r.RATerminated(),
		multiThreatEncounter: r.MultiThreatEncounter(),
		threatType:           r.ThreatType(),
		threatIdentity:       r.ThreatIdentity(),
	}
}

func TestDecodeFieldPlacement(t *testing.T) {
	testCases := []struct {
		name    string
		payload [modes.PayloadBytes]byte
		want    fields
	}{
		{
			name:    "RA terminated only",
			payload: [7]byte{0xE2, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00},
			want:    fields{raTerminated: true},
		},
		{
			name:    "active RA all bits",
			payload: [7]byte{0xE2, 0xFF, 0xFC, 0x00, 0x00, 0x00, 0x00},
			want:    fields{activeRA: 0x3FFF},
		},
		{
			name:    "active RA straddling pattern",
			payload: [7]byte{0xE2, 0xA5, 0x5C, 0x00, 0x00, 0x00, 0x00},
			want:    fields{activeRA: 0x2957},
		},
		{
			name:    "active RA top bit only",
			payload: [7]byte{0xE2, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00},
			want:    fields{activeRA: 0x2000},
		},
		{
			name:    "active RA bottom bit only",
			payload: [7]byte{0xE2, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00},
			want:    fields{activeRA: 0x0001},
		},
		{
			name:    "RAC record all bits",
			payload: [7]byte{0xE2, 0x00, 0x03, 0xC0, 0x00, 0x00, 0x00},
			want:    fields{racRecord: 0xF},
		},
		{
			name:    "RAC record 1001",
			payload: [7]byte{0xE2, 0x00, 0x02, 0x40, 0x00, 0x00, 0x00},
			want:    fields{racRecord: 0x9},
		},
		{
			name:    "multiple threat encounter",
			payload: [7]byte{0xE2, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00},
			want:    fields{multiThreatEncounter: true},
		},
		{
			name:    "threat type 1",
			payload: [7]byte{0xE2, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00},
			want:    fields{threatType: ThreatModeSAddr},
		},
		{
			name:    "threat type 3",
			payload: [7]byte{0xE2, 0x00, 0x00, 0x0C, 0x00, 0x00, 0x00},
			want:    fields{threatType: ThreatUnassigned},
		},
		{
			name:    "threat identity all bits",
			payload: [7]byte{0xE2, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF},
			want:    fields{threatIdentity: 0x3FFFFFF},
		},
		{
			name:    "threat identity pattern",
			payload: [7]byte{0xE2, 0x00, 0x00, 0x00, 0x56, 0xBE, 0xEF},
			want:    fields{threatIdentity: 0x256BEEF},
		},
		{
			name:    "threat identity high bits follow low bits of payload[4]",
			payload: [7]byte{0xE2, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00},
			want:    fields{threatIdentity: 0x1010000},
		},
		{
			name:    "all zero",
			payload: [7]byte{0xE2, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			want:    fields{},
		},
		{
			name:    "every field set",
			payload: [7]byte{0xE2, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			want: fields{
				activeRA:             0x3FFF,
				racRecord:            0xF,
				raTerminated:         true,
				multiThreatEncounter: true,
				threatType:           ThreatUnassigned,
				threatIdentity:       0x3FFFFFF,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Decode(frameFor(t, tc.payload))
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			if r.Subtype() != 2 {
				t.Errorf("Subtype = %d, want 2", r.Subtype())
			}
			if got := fieldsOf(r); got != tc.want {
				t.Errorf("fields = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecodeWrongTypeCode(t *testing.T) {
	for _, first := range []byte{0x00, 0x22, 0x9A, 0xDA, 0xEA, 0xFA} {
		t.Run(fmt.Sprintf("%02X", first), func(t *testing.T) {
			f := frameFor(t, [7]byte{first, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00})

			r, err := Decode(f)
			if r != nil {
				t.Fatalf("expected nil report, got %+v", r)
			}
			if !errors.Is(err, modes.ErrWrongTypeCode) {
				t.Fatalf("error = %v, want ErrWrongTypeCode", err)
			}
			if errors.Is(err, modes.ErrWrongSubtype) || errors.Is(err, modes.ErrFormat) {
				t.Errorf("error %v matches more than one kind", err)
			}

			var de *modes.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *modes.DecodeError", err)
			}
			if de.Got != first>>3 || de.Want != TypeCode {
				t.Errorf("Got/Want = %d/%d, want %d/%d", de.Got, de.Want, first>>3, TypeCode)
			}
			if de.Raw != f.Raw() {
				t.Errorf("Raw = %q, want %q", de.Raw, f.Raw())
			}
		})
	}
}

func TestDecodeWrongSubtype(t *testing.T) {
	for _, subtype := range []byte{0, 1, 3, 4, 5, 6, 7} {
		t.Run(fmt.Sprintf("subtype %d", subtype), func(t *testing.T) {
			f := frameFor(t, [7]byte{0xE0 | subtype, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})

			r, err := Decode(f)
			if r != nil {
				t.Fatalf("expected nil report, got %+v", r)
			}
			if !errors.Is(err, modes.ErrWrongSubtype) {
				t.Fatalf("error = %v, want ErrWrongSubtype", err)
			}
			var de *modes.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *modes.DecodeError", err)
			}
			if de.Got != subtype || de.Want != Subtype {
				t.Errorf("Got/Want = %d/%d, want %d/%d", de.Got, de.Want, subtype, Subtype)
			}
		})
	}
}

func TestDecodeIdempotent(t *testing.T) {
	raw := rawFor([7]byte{0xE2, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC})

	var reports []*Report
	for j := 0; j < 2; j++ {
		f, err := modes.DecodeFrame(raw)
		if err != nil {
			t.Fatalf("DecodeFrame returned error: %v", err)
		}
		r, err := Decode(f)
		if err != nil {
			t.Fatalf("Decode returned error: %v", err)
		}
		reports = append(reports, r)
	}

	if fieldsOf(reports[0]) != fieldsOf(reports[1]) {
		t.Errorf("fields differ: %+v vs %+v", fieldsOf(reports[0]), fieldsOf(reports[1]))
	}
	if reports[0].String() != reports[1].String() {
		t.Error("String() differs between decodes")
	}
}

func TestReportString(t *testing.T) {
	r, err := Decode(frameFor(t, [7]byte{0xE2, 0x00, 0x00, 0x34, 0x48, 0x40, 0xD6}))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	want := r.Frame().String() + "\n" +
		"TCAS Resolution Advisory:\n" +
		"\tSubtype:\t2\n" +
		"\tActive RAs:\t0\n" +
		"\tCurrent active RACs:\t0\n" +
		"\tRA terminated:\ttrue\n" +
		"\tMultiple threats:\ttrue\n" +
		"\tThreat type:\t1\n" +
		"\tThreat identity:\t4735190"
	if got := r.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestReportMarshalJSON(t *testing.T) {
	r, err := Decode(frameFor(t, [7]byte{0xE2, 0x00, 0x00, 0x34, 0x48, 0x40, 0xD6}))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}

	if got["icao"] != "4840d6" {
		t.Errorf("icao = %v, want 4840d6", got["icao"])
	}
	if got["threat_address"] != "4840d6" {
		t.Errorf("threat_address = %v, want 4840d6", got["threat_address"])
	}
	if got["ra_terminated"] != true || got["multi_threat_encounter"] != true {
		t.Errorf("flags = %v/%v, want true/true", got["ra_terminated"], got["multi_threat_encounter"])
	}
	if _, ok := got["threat_range_nm"]; ok {
		t.Error("threat_range_nm should be omitted for threat type 1")
	}
}

func TestDecoderAdapter(t *testing.T) {
	d := &Decoder{}
	res, err := d.Decode(frameFor(t, [7]byte{0xE2, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00}))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if res.Type() != Name {
		t.Errorf("Type = %q, want %q", res.Type(), Name)
	}

	res, err = d.Decode(frameFor(t, [7]byte{0xE1, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}))
	if res != nil || !errors.Is(err, modes.ErrWrongSubtype) {
		t.Errorf("Decode = %v, %v; want nil, ErrWrongSubtype", res, err)
	}
}
