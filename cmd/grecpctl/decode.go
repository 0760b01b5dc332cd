package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/grecp/internal/observability"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const maxLineBytes = 1 << 20

func newDecodeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [FILE...]",
		Short: "Decode hex encoded GRE packets, one per line",
		Long: "Decode hex encoded GRE packets, one per line. Reads stdin when no file is given " +
			"or the file is \"-\". Blank lines and text after '#' are ignored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, opts, args)
		},
	}
}

type decodeStats struct {
	lines   int
	decoded int
	skipped int
	failed  int
}

func runDecode(cmd *cobra.Command, opts *globalOptions, args []string) error {
	d, err := newDecoder(opts.cfg)
	if err != nil {
		return err
	}
	logger := observability.Logger("decode")
	if len(args) == 0 {
		args = []string{"-"}
	}

	var stats decodeStats
	for _, name := range args {
		if err := decodeSource(cmd.InOrStdin(), name, d, logger, &stats); err != nil {
			return err
		}
	}

	logger.Info().
		Int("lines", stats.lines).
		Int("decoded", stats.decoded).
		Int("skipped", stats.skipped).
		Int("failed", stats.failed).
		Msg("decode finished")

	if path := opts.cfg.MetricsTextfile; path != "" {
		if err := observability.WriteTextfile(path); err != nil {
			return fmt.Errorf("write metrics textfile: %w", err)
		}
	}
	if opts.cfg.Strict && (stats.failed > 0 || stats.skipped > 0) {
		return fmt.Errorf("%d of %d packets rejected", stats.failed+stats.skipped, stats.lines)
	}
	return nil
}

func decodeSource(stdin io.Reader, name string, d *decoder, logger zerolog.Logger, stats *decodeStats) error {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		raw, ok, err := parseHexLine(sc.Text())
		if !ok {
			continue
		}
		stats.lines++
		if err != nil {
			stats.failed++
			logger.Warn().Str("source", name).Int("line", line).Err(err).Msg("bad hex input")
			continue
		}
		out := d.decode(raw)
		logOutcome(logger.With().Str("source", name).Int("line", line).Logger(), out)
		switch {
		case out.Skipped != "":
			stats.skipped++
		case out.Err != nil:
			stats.failed++
		default:
			stats.decoded++
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

// parseHexLine strips comments and separators. ok is false for lines with no
// data.
func parseHexLine(text string) (raw []byte, ok bool, err error) {
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	text = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', ':', '-', '\r':
			return -1
		}
		return r
	}, text)
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	if text == "" {
		return nil, false, nil
	}
	raw, err = hex.DecodeString(text)
	return raw, true, err
}

func logOutcome(logger zerolog.Logger, out outcome) {
	if out.Err != nil {
		var ev *zerolog.Event
		if out.Skipped != "" {
			ev = logger.Info().Str("skipped", out.Skipped)
		} else {
			ev = logger.Warn()
		}
		ev = ev.Err(out.Err)
		if out.Header != nil {
			ev = ev.Str("gre_proto", fmt.Sprintf("0x%04x", out.Header.Proto))
		}
		ev.Msg("packet not decoded")
		if !out.Decoded {
			return
		}
	}

	m := out.Message
	ev := logger.Info().
		Stringer("message_type", m.Type).
		Stringer("tunnel", m.Tunnel).
		Int("attributes", len(m.Attributes))
	if h := out.Header; h != nil {
		ev = ev.Str("gre_proto", fmt.Sprintf("0x%04x", h.Proto))
		if h.HasKey() {
			ev = ev.Uint32("gre_key", h.Key)
		}
		if h.HasSequence() {
			ev = ev.Uint32("gre_sequence", h.Sequence)
		}
	}
	ev.Msg("grecp message")

	for i, a := range m.Attributes {
		logger.Debug().
			Int("index", i).
			Stringer("attribute", a.ID).
			Stringer("kind", a.Value.Kind()).
			Int("length", a.Len()).
			Str("value", formatValue(a.Value)).
			Msg("grecp attribute")
	}
}
