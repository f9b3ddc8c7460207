package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"adsb_parser/internal/modes"
	"adsb_parser/internal/registry"
)

// DecodeOut is one line of input and what became of it.
type DecodeOut struct {
	Raw      string             `json:"raw"`
	Type     string             `json:"type,omitempty"`
	ParityOK *bool              `json:"parity_ok,omitempty"` // nil when the input could not be framed.
	Result   registry.Result    `json:"result,omitempty"`
	Error    string             `json:"error,omitempty"`
	Trace    []registry.Attempt `json:"trace,omitempty"`

	err error
}

type Stats struct {
	Lines        int
	Skipped      int
	FormatErrors int
	Unsupported  int
	Failed       int
	Decoded      int
	BadParity    int
	ByType       map[string]int
}

type decodeOptions struct {
	all   bool
	trace bool
}

// decodeOne frames and dispatches a single hex message.
func decodeOne(reg *registry.Registry, raw string, trace bool) DecodeOut {
	out := DecodeOut{Raw: raw}

	f, err := modes.DecodeFrame(raw)
	if err != nil {
		out.Error, out.err = err.Error(), err
		return out
	}

	parityOK := f.ParityOK()
	out.ParityOK = &parityOK

	var res registry.Result
	if trace {
		tr := reg.DispatchWithTrace(f)
		res, err = tr.Result, tr.Err
		out.Trace = tr.Attempts
	} else {
		res, err = reg.Dispatch(f)
	}

	if err != nil {
		out.Error, out.err = err.Error(), err
		return out
	}
	out.Type = res.Type()
	out.Result = res
	return out
}

// count files out into st and reports whether it decoded.
func (st *Stats) count(out DecodeOut) bool {
	if out.ParityOK != nil && !*out.ParityOK {
		st.BadParity++
	}

	err := out.err
	switch {
	case err == nil:
		st.Decoded++
		st.ByType[out.Type]++
		return true
	case errors.Is(err, modes.ErrFormat):
		st.FormatErrors++
	case errors.Is(err, registry.ErrNoDecoder):
		st.Unsupported++
	default:
		st.Failed++
	}
	return false
}

// decodeLines reads one message per line from r.
func decodeLines(reg *registry.Registry, r io.Reader, opts decodeOptions) ([]DecodeOut, *Stats, error) {
	scanner := bufio.NewScanner(r)
	out := make([]DecodeOut, 0, 1024)
	st := &Stats{ByType: make(map[string]int)}

	for scanner.Scan() {
		st.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			st.Skipped++
			continue
		}

		res := decodeOne(reg, line, opts.trace)
		if !st.count(res) {
			log.Debug().Int("line", st.Lines).Str("raw", line).Str("error", res.Error).Msg("message not decoded")
			if !opts.all {
				continue
			}
		}
		out = append(out, res)
	}

	if err := scanner.Err(); err != nil {
		return out, st, err
	}
	return out, st, nil
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	cfgPath := fs.String("config", envOrDefault("ADSB_CONFIG", ""), "YAML config file")
	inPath := fs.String("input", "", "Input file, one hex message per line (default: stdin)")
	outPath := fs.String("output", "", "Output file (default: stdout)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	includeAll := fs.Bool("all", false, "Include messages that failed to decode")
	trace := fs.Bool("trace", false, "Include every decoder attempt in the output")
	text := fs.Bool("text", false, "Write text renderings instead of JSON")
	showStats := fs.Bool("stats", false, "Print basic counters to stderr")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	set := setFlags(fs)
	if set["pretty"] {
		cfg.Output.Pretty = *pretty
	}
	if set["all"] {
		cfg.Output.All = *includeAll
	}
	if set["trace"] {
		cfg.Output.Trace = *trace
	}
	setupLogger(cfg)

	var r io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *inPath).Msg("failed to open input")
		}
		defer f.Close()
		r = f
	}

	out, st, err := decodeLines(registry.Default(), r, decodeOptions{all: cfg.Output.All, trace: cfg.Output.Trace})
	if err != nil {
		log.Fatal().Err(err).Msg("input read error")
	}

	var wout io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *outPath).Msg("failed to create output")
		}
		defer f.Close()
		wout = f
	}

	if *text {
		err = writeText(wout, out)
	} else {
		err = writeJSON(wout, out, cfg.Output.Pretty)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("write error")
	}

	if *showStats {
		fmt.Fprintf(os.Stderr,
			"stats: lines=%d skipped=%d format_errors=%d unsupported=%d failed=%d decoded=%d bad_parity=%d by_type=%v\n",
			st.Lines, st.Skipped, st.FormatErrors, st.Unsupported, st.Failed, st.Decoded, st.BadParity, st.ByType,
		)
	}
}

func marshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func writeJSON(w io.Writer, out []DecodeOut, pretty bool) error {
	enc, err := marshalJSON(out, pretty)
	if err != nil {
		return err
	}
	enc = append(enc, '\n')
	_, err = w.Write(enc)
	return err
}

func writeText(w io.Writer, out []DecodeOut) error {
	for _, o := range out {
		var err error
		switch {
		case o.Result != nil:
			_, err = fmt.Fprintf(w, "%s\n\n", o.Result)
		default:
			_, err = fmt.Fprintf(w, "%s\n\terror: %s\n\n", o.Raw, o.Error)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
