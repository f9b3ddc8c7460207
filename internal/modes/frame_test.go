package modes

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		df      uint8
		ca      uint8
		icao    string
		ftc     uint8
		payload [PayloadBytes]byte
		parity  bool
	}{
		{
			name:    "DF17 identification",
			raw:     "8D406B902015A678D4D220AA4BDA",
			df:      17,
			ca:      5,
			icao:    "406b90",
			ftc:     4,
			payload: [PayloadBytes]byte{0x20, 0x15, 0xA6, 0x78, 0xD4, 0xD2, 0x20},
			parity:  true,
		},
		{
			name:    "lowercase with AVR markers",
			raw:     " *8d4840d6202cc371c32ce0576098;\n",
			df:      17,
			ca:      5,
			icao:    "4840d6",
			ftc:     4,
			payload: [PayloadBytes]byte{0x20, 0x2C, 0xC3, 0x71, 0xC3, 0x2C, 0xE0},
			parity:  true,
		},
		{
			name:    "DF18 TCAS RA without parity",
			raw:     "904840D6E2000020000000000000",
			df:      18,
			ca:      0,
			icao:    "4840d6",
			ftc:     28,
			payload: [PayloadBytes]byte{0xE2, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00},
			parity:  false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := DecodeFrame(tc.raw)
			if err != nil {
				t.Fatalf("DecodeFrame returned error: %v", err)
			}
			if f.Raw() != tc.raw {
				t.Errorf("Raw = %q, want %q", f.Raw(), tc.raw)
			}
			if f.DownlinkFormat() != tc.df {
				t.Errorf("DownlinkFormat = %d, want %d", f.DownlinkFormat(), tc.df)
			}
			if f.Capabilities() != tc.ca {
				t.Errorf("Capabilities = %d, want %d", f.Capabilities(), tc.ca)
			}
			if f.ICAOHex() != tc.icao {
				t.Errorf("ICAOHex = %q, want %q", f.ICAOHex(), tc.icao)
			}
			if f.FormatTypeCode() != tc.ftc {
				t.Errorf("FormatTypeCode = %d, want %d", f.FormatTypeCode(), tc.ftc)
			}
			if f.Payload() != tc.payload {
				t.Errorf("Payload = %X, want %X", f.Payload(), tc.payload)
			}
			if f.ParityOK() != tc.parity {
				t.Errorf("ParityOK = %v, want %v", f.ParityOK(), tc.parity)
			}
		})
	}
}

func TestDecodeFrameRejects(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{"empty", "", "length 0"},
		{"short reply", "8D4840D6E20000200000", "length 20"},
		{"too long", "8D4840D6E200002000000000000000", "length 30"},
		{"non-hex", "8D4840D6E2000020000000000Z00", "invalid hex at offset 24"},
		{"DF11 all-call", "5D4840D6E2000020000000000000", "downlink format 11"},
		{"DF20 comm-b", "A04840D6E2000020000000000000", "downlink format 20"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := DecodeFrame(tc.raw)
			if f != nil {
				t.Fatalf("expected nil frame, got %+v", f)
			}
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("error = %v, want ErrFormat", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not *FormatError", err)
			}
			if fe.Raw != tc.raw {
				t.Errorf("Raw = %q, want %q", fe.Raw, tc.raw)
			}
			if !strings.Contains(fe.Reason, tc.reason) {
				t.Errorf("Reason = %q, want it to contain %q", fe.Reason, tc.reason)
			}
		})
	}
}

func TestFramePayloadIsCopy(t *testing.T) {
	f, err := DecodeFrame("8D4840D6E2000020000000000000")
	if err != nil {
		t.Fatalf("DecodeFrame returned error: %v", err)
	}
	p := f.Payload()
	p[0] = 0xFF
	if f.Payload()[0] != 0xE2 || f.FormatTypeCode() != 28 {
		t.Errorf("frame was mutated through Payload copy")
	}
}

func TestFrameString(t *testing.T) {
	f, err := DecodeFrame("8D406B902015A678D4D220AA4BDA")
	if err != nil {
		t.Fatalf("DecodeFrame returned error: %v", err)
	}
	want := "Mode S Reply:\n" +
		"\tDownlink format:\t17\n" +
		"\tCapabilities:\t5\n" +
		"\tICAO 24-bit address:\t406b90\n" +
		"\tParity:\taa4bda\n" +
		"\tCalculated parity:\taa4bda\n" +
		"Extended Squitter:\n" +
		"\tFormat type code:\t4\n" +
		"\tMessage:\t2015a678d4d220"
	if got := f.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	f, err := DecodeFrame("8D4840D6E2000020000000000000")
	if err != nil {
		t.Fatalf("DecodeFrame returned error: %v", err)
	}

	tcErr := WrongTypeCode("identification", f, 4)
	if !errors.Is(tcErr, ErrWrongTypeCode) || errors.Is(tcErr, ErrWrongSubtype) {
		t.Errorf("WrongTypeCode error kind mismatch: %v", tcErr)
	}
	var de *DecodeError
	if !errors.As(tcErr, &de) {
		t.Fatalf("error %T is not *DecodeError", tcErr)
	}
	if de.Got != 28 || de.Want != 4 || de.Raw != f.Raw() {
		t.Errorf("DecodeError = %+v", de)
	}

	stErr := WrongSubtype("emergency", f, 2, 1)
	if !errors.Is(stErr, ErrWrongSubtype) {
		t.Errorf("WrongSubtype error kind mismatch: %v", stErr)
	}

	if !IsMismatch(tcErr) || !IsMismatch(stErr) {
		t.Error("IsMismatch should accept both decode error kinds")
	}
	if IsMismatch(&FormatError{Raw: "x", Reason: "y"}) {
		t.Error("IsMismatch should reject format errors")
	}
}
