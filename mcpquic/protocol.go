// CLAUDE:SUMMARY Wire contract for MCP-over-QUIC: ALPN, magic bytes, error codes, message cap.
package mcpquic

import (
	"errors"
	"fmt"
	"io"

	"github.com/quic-go/quic-go"
)

// ALPNProtocolMCP is the TLS ALPN identifier negotiated for MCP-over-QUIC.
const ALPNProtocolMCP = "mcp-quic-v1"

// MagicBytesMCP opens every MCP stream. A peer that speaks anything else
// (HTTP/3 probes, port scanners) is rejected before JSON-RPC starts.
const MagicBytesMCP = "MCP1"

// MaxMessageSize caps a single JSON-RPC message on the wire.
const MaxMessageSize = 10 * 1024 * 1024

// Connection-level QUIC application error codes.
const (
	ConnErrorNoError           quic.ApplicationErrorCode = 0x00
	ConnErrorProtocolViolation quic.ApplicationErrorCode = 0x03
	ConnErrorUnsupportedALPN   quic.ApplicationErrorCode = 0x04
)

// Stream-level QUIC error codes.
const (
	StreamErrorProtocolConfusion quic.StreamErrorCode = 0x03
)

var (
	ErrInvalidMagicBytes = errors.New("mcpquic: invalid magic bytes")
	ErrUnsupportedALPN   = errors.New("mcpquic: unsupported ALPN protocol")
	ErrConnectionClosed  = errors.New("mcpquic: connection closed")
)

// ConnectionError describes a failed connection attempt or teardown,
// carrying the QUIC application error code sent to the peer.
type ConnectionError struct {
	RemoteAddr string
	Code       quic.ApplicationErrorCode
	Err        error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mcpquic: connection to %s failed (code 0x%02x): %v",
		e.RemoteAddr, uint64(e.Code), e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SendMagicBytes writes the protocol preamble on a freshly opened stream.
func SendMagicBytes(w io.Writer) error {
	if _, err := w.Write([]byte(MagicBytesMCP)); err != nil {
		return fmt.Errorf("send magic bytes: %w", err)
	}
	return nil
}

// ValidateMagicBytes reads the preamble and checks it before any
// JSON-RPC traffic is accepted.
func ValidateMagicBytes(r io.Reader) error {
	buf := make([]byte, len(MagicBytesMCP))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read magic bytes: %w", err)
	}
	if string(buf) != MagicBytesMCP {
		return fmt.Errorf("%w: got %q", ErrInvalidMagicBytes, buf)
	}
	return nil
}
