package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/grecp/internal/protocol/gre"
	"github.com/danmuck/grecp/internal/protocol/grecp"
	"github.com/spf13/cobra"
)

var buildKinds = []string{"request", "hello", "filter-ack", "verify", "link-failure", "bypass"}

type buildOptions struct {
	tunnel     string
	clientName string
	sessionID  uint32
	uptime     time.Duration
	commit     uint32
	ackCode    uint8
	kbit       uint32
	key        uint32
	sequence   int64
}

func newBuildCommand(opts *globalOptions) *cobra.Command {
	bo := buildOptions{sequence: -1}

	cmd := &cobra.Command{
		Use:       "build KIND",
		Short:     "Encode a client control message as hex",
		Long:      "Encode a client control message as hex. KIND is one of: " + strings.Join(buildKinds, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: buildKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := runBuild(opts, bo, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(b))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&bo.tunnel, "tunnel", "lte", "Tunnel type (lte, dsl, or 0-15)")
	flags.StringVar(&bo.clientName, "client-name", "", "Client identification name for setup requests")
	flags.Uint32Var(&bo.sessionID, "session-id", 0, "Session id for setup requests (0 omits it)")
	flags.DurationVar(&bo.uptime, "uptime", 0, "Uptime carried by hello")
	flags.Uint32Var(&bo.commit, "commit", 0, "Filter list commit count to acknowledge")
	flags.Uint8Var(&bo.ackCode, "ack-code", 1, "Filter list acknowledge code")
	flags.Uint32Var(&bo.kbit, "kbit", 0, "Bypass traffic rate in kbit/s")
	flags.Uint32Var(&bo.key, "key", 0, "GRE key")
	flags.Int64Var(&bo.sequence, "sequence", -1, "GRE sequence number (negative omits it)")
	return cmd
}

func runBuild(opts *globalOptions, bo buildOptions, kind string) ([]byte, error) {
	tunnel, err := parseTunnel(bo.tunnel)
	if err != nil {
		return nil, err
	}
	m, err := buildMessage(kind, tunnel, bo)
	if err != nil {
		return nil, err
	}
	payload, err := grecp.Encode(m)
	if err != nil {
		return nil, err
	}
	if opts.cfg.PayloadOnly {
		return payload, nil
	}

	binding, err := opts.cfg.Binding()
	if err != nil {
		return nil, err
	}
	h := gre.Header{Flags: gre.FlagsKey, Proto: binding[0], Key: bo.key}
	if bo.sequence >= 0 {
		if bo.sequence > 0xFFFFFFFF {
			return nil, fmt.Errorf("sequence out of range: %d", bo.sequence)
		}
		h.Flags = gre.FlagsKeySequence
		h.Sequence = uint32(bo.sequence)
	}
	return gre.EncodePacket(gre.Packet{Header: h, Payload: payload}, opts.cfg.Limits())
}

func buildMessage(kind string, tunnel grecp.TunnelType, bo buildOptions) (grecp.Message, error) {
	switch kind {
	case "request":
		return grecp.NewRequest(tunnel, bo.clientName, bo.sessionID), nil
	case "hello":
		return grecp.NewHello(tunnel, bo.uptime), nil
	case "filter-ack":
		return grecp.NewFilterListAckNotify(bo.commit, bo.ackCode), nil
	case "verify":
		return grecp.NewTunnelVerificationNotify(), nil
	case "link-failure":
		return grecp.NewLinkFailureNotify(tunnel), nil
	case "bypass":
		return grecp.NewBypassTrafficNotify(bo.kbit), nil
	}
	return grecp.Message{}, fmt.Errorf("unknown message kind %q (want one of %s)", kind, strings.Join(buildKinds, ", "))
}

func parseTunnel(raw string) (grecp.TunnelType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "lte":
		return grecp.TunnelLTE, nil
	case "dsl":
		return grecp.TunnelDSL, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 4)
	if err != nil {
		return 0, fmt.Errorf("invalid tunnel %q", raw)
	}
	return grecp.TunnelType(n), nil
}
