// Package registry provides a decoder registry for dispatching extended
// squitter frames to the decoder of their message kind.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"adsb_parser/internal/modes"
)

// ErrNoDecoder is wrapped by UnsupportedError.
var ErrNoDecoder = errors.New("no decoder for frame")

// Result is the common interface for all decoded records.
type Result interface {
	Type() string        // e.g., "tcas_ra", "identification"
	Frame() *modes.Frame // The originating frame.
}

// Decoder is implemented by each message decoder.
type Decoder interface {
	// Name returns the decoder's unique identifier.
	Name() string

	// FormatTypeCodes returns which format type codes this decoder handles.
	// Empty slice means "all codes".
	FormatTypeCodes() []uint8

	// Priority determines order when several decoders share a type code.
	// Lower number = tried first.
	Priority() int

	// Decode returns the record, or an error. Errors matching
	// modes.ErrWrongTypeCode or modes.ErrWrongSubtype mean the frame belongs
	// to another decoder.
	Decode(f *modes.Frame) (Result, error)
}

// UnsupportedError is returned when every candidate decoder rejected the
// frame as not its kind.
type UnsupportedError struct {
	FormatTypeCode uint8
	Subtype        uint8
	Raw            string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: format type code %d subtype %d (raw %q)",
		ErrNoDecoder, e.FormatTypeCode, e.Subtype, e.Raw)
}

func (e *UnsupportedError) Unwrap() error { return ErrNoDecoder }

// Registry holds all registered decoders organised for dispatch.
type Registry struct {
	mu sync.RWMutex

	// byCode maps format type codes to decoders, sorted by Priority (ascending)
	byCode map[uint8][]Decoder

	// global holds decoders that accept any type code
	global []Decoder

	// sorted tracks whether decoders have been sorted
	sorted bool
}

// New creates a new Registry instance.
func New() *Registry {
	return &Registry{
		byCode: make(map[uint8][]Decoder),
	}
}

// Global default registry.
var defaultRegistry = New()

// Default returns the global registry instance.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a decoder to the default registry.
// Called during init() in each decoder package.
func Register(d Decoder) {
	defaultRegistry.Register(d)
}

// Register adds a decoder to the registry.
func (r *Registry) Register(d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes := d.FormatTypeCodes()
	if len(codes) == 0 {
		r.global = append(r.global, d)
	} else {
		for _, code := range codes {
			r.byCode[code] = append(r.byCode[code], d)
		}
	}
	r.sorted = false
}

// Sort sorts all decoder slices by priority. Call before dispatching.
func (r *Registry) Sort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sorted {
		return
	}

	for code := range r.byCode {
		decoders := r.byCode[code]
		sort.SliceStable(decoders, func(i, j int) bool {
			return decoders[i].Priority() < decoders[j].Priority()
		})
	}

	sort.SliceStable(r.global, func(i, j int) bool {
		return r.global[i].Priority() < r.global[j].Priority()
	})

	r.sorted = true
}

// candidates returns code-specific decoders followed by global ones.
// Caller holds r.mu.
func (r *Registry) candidates(code uint8) []Decoder {
	byCode := r.byCode[code]
	out := make([]Decoder, 0, len(byCode)+len(r.global))
	out = append(out, byCode...)
	return append(out, r.global...)
}

// Dispatch routes a frame to its decoder and returns the first record.
// Decoders rejecting the frame with a type code or subtype mismatch are
// skipped; any other error stops dispatch and is returned unchanged.
// If Sort() has not been called, decoders are tried in registration order.
func (r *Registry) Dispatch(f *modes.Frame) (Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.candidates(f.FormatTypeCode()) {
		result, err := d.Decode(f)
		if err == nil {
			return result, nil
		}
		if !modes.IsMismatch(err) {
			return nil, err
		}
	}

	return nil, unsupported(f)
}

// DispatchRaw frames raw and dispatches it. Framing failures are returned as
// *modes.FormatError.
func (r *Registry) DispatchRaw(raw string) (Result, error) {
	f, err := modes.DecodeFrame(raw)
	if err != nil {
		return nil, err
	}
	return r.Dispatch(f)
}

func unsupported(f *modes.Frame) error {
	p := f.Payload()
	return &UnsupportedError{
		FormatTypeCode: f.FormatTypeCode(),
		Subtype:        p[0] & 0x7,
		Raw:            f.Raw(),
	}
}

// RegisteredTypeCodes returns all format type codes that have decoders registered.
func (r *Registry) RegisteredTypeCodes() []uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]uint8, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// DecoderCount returns the total number of unique registered decoders.
// Decoders registered for multiple type codes are only counted once.
func (r *Registry) DecoderCount() int {
	return len(r.AllDecoders())
}

// AllDecoders returns all registered decoders, each once.
func (r *Registry) AllDecoders() []Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var result []Decoder

	add := func(d Decoder) {
		if !seen[d.Name()] {
			seen[d.Name()] = true
			result = append(result, d)
		}
	}

	for _, d := range r.global {
		add(d)
	}

	codes := make([]uint8, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, code := range codes {
		for _, d := range r.byCode[code] {
			add(d)
		}
	}

	return result
}
