package registry

import "adsb_parser/internal/modes"

// Attempt records one decoder's verdict on a frame.
type Attempt struct {
	Decoder string `json:"decoder"`
	Matched bool   `json:"matched"`
	Error   string `json:"error,omitempty"`
}

// TraceResult contains every attempt made while dispatching a frame.
type TraceResult struct {
	FormatTypeCode uint8     `json:"format_type_code"`
	Attempts       []Attempt `json:"attempts"`
	Result         Result    `json:"-"`
	Err            error     `json:"-"`
}

// DispatchWithTrace behaves like Dispatch but keeps going through every
// candidate decoder so the trace shows why each one did or didn't match.
// Result and Err hold what Dispatch would have returned.
func (r *Registry) DispatchWithTrace(f *modes.Frame) *TraceResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tr := &TraceResult{FormatTypeCode: f.FormatTypeCode()}
	done := false

	for _, d := range r.candidates(f.FormatTypeCode()) {
		result, err := d.Decode(f)
		a := Attempt{Decoder: d.Name(), Matched: err == nil}
		if err != nil {
			a.Error = err.Error()
		}
		tr.Attempts = append(tr.Attempts, a)

		if done {
			continue
		}
		switch {
		case err == nil:
			tr.Result, done = result, true
		case !modes.IsMismatch(err):
			tr.Err, done = err, true
		}
	}

	if !done {
		tr.Err = unsupported(f)
	}
	return tr
}
