package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"adsb_parser/internal/registry"
)

// bridge decodes raw messages arriving on a NATS subject.
type bridge struct {
	reg   *registry.Registry
	all   bool
	trace bool

	received atomic.Int64
	decoded  atomic.Int64
	dropped  atomic.Int64
}

// handle decodes one payload. ok is false when nothing should be published.
func (b *bridge) handle(data []byte) (out []byte, ok bool) {
	b.received.Add(1)

	raw := strings.TrimSpace(string(data))
	res := decodeOne(b.reg, raw, b.trace)
	if res.err != nil {
		log.Debug().Str("raw", raw).Err(res.err).Msg("message not decoded")
		if !b.all {
			b.dropped.Add(1)
			return nil, false
		}
	} else {
		b.decoded.Add(1)
	}

	enc, err := json.Marshal(res)
	if err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("encode failed")
		b.dropped.Add(1)
		return nil, false
	}
	return enc, true
}

func runNATS(args []string) {
	fs := flag.NewFlagSet("nats", flag.ExitOnError)
	cfgPath := fs.String("config", envOrDefault("ADSB_CONFIG", ""), "YAML config file")
	url := fs.String("url", envOrDefault("NATS_URL", ""), "NATS server URL")
	subject := fs.String("subject", "", "Subject carrying hex messages")
	publish := fs.String("publish", "", "Subject to publish decoded JSON to")
	queue := fs.String("queue", "", "Queue group for load-balanced decoding")
	includeAll := fs.Bool("all", false, "Publish messages that failed to decode")
	trace := fs.Bool("trace", false, "Include every decoder attempt in the output")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	set := setFlags(fs)
	if *url != "" {
		cfg.NATS.URL = *url
	}
	if set["subject"] {
		cfg.NATS.Subject = *subject
	}
	if set["publish"] {
		cfg.NATS.Publish = *publish
	}
	if set["queue"] {
		cfg.NATS.Queue = *queue
	}
	if set["all"] {
		cfg.Output.All = *includeAll
	}
	if set["trace"] {
		cfg.Output.Trace = *trace
	}
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	nc, err := nats.Connect(cfg.NATS.URL,
		nats.Name(cfg.NATS.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.NATS.URL).Msg("NATS connect failed")
	}

	b := &bridge{reg: registry.Default(), all: cfg.Output.All, trace: cfg.Output.Trace}
	handler := func(m *nats.Msg) {
		out, ok := b.handle(m.Data)
		if !ok {
			return
		}
		if err := nc.Publish(cfg.NATS.Publish, out); err != nil {
			log.Error().Err(err).Str("subject", cfg.NATS.Publish).Msg("publish failed")
		}
	}

	var sub *nats.Subscription
	if cfg.NATS.Queue != "" {
		sub, err = nc.QueueSubscribe(cfg.NATS.Subject, cfg.NATS.Queue, handler)
	} else {
		sub, err = nc.Subscribe(cfg.NATS.Subject, handler)
	}
	if err != nil {
		nc.Close()
		log.Fatal().Err(err).Str("subject", cfg.NATS.Subject).Msg("subscribe failed")
	}

	log.Info().
		Str("url", nc.ConnectedUrl()).
		Str("subject", sub.Subject).
		Str("publish", cfg.NATS.Publish).
		Str("queue", cfg.NATS.Queue).
		Msg("decoding NATS feed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if err := nc.Drain(); err != nil {
		log.Warn().Err(err).Msg("NATS drain failed")
	}
	log.Info().
		Int64("received", b.received.Load()).
		Int64("decoded", b.decoded.Load()).
		Int64("dropped", b.dropped.Load()).
		Msg("stopped")
}
