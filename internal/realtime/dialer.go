package realtime

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"codeberg.org/finboard/server/internal/logger"
	"github.com/gorilla/websocket"
)

// rewrites raw to the wss scheme when forceSecure is set.
// ws, http and https URLs become wss; anything else is returned unchanged.
func SecureURL(raw string, forceSecure bool) string {
	if !forceSecure {
		return raw
	}

	for _, prefix := range []string{"ws://", "http://", "https://"} {
		if strings.HasPrefix(raw, prefix) {
			return "wss://" + strings.TrimPrefix(raw, prefix)
		}
	}

	return raw
}

// creates a dialer; ForceSecure upgrades every URL it dials
func NewDialer(forceSecure bool) *Dialer {
	return &Dialer{
		ForceSecure: forceSecure,
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// dials raw after applying SecureURL
func (d *Dialer) Dial(ctx context.Context, raw string, header http.Header) (*websocket.Conn, error) {
	target := SecureURL(raw, d.ForceSecure)

	if target != raw {
		logger.Debug("websocket url upgraded to wss", "original", redact(raw), "target", redact(target))
	}

	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, resp, err := dialer.DialContext(ctx, target, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close() //nolint:errcheck,gosec // handshake body is not needed
	}

	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", redact(target), err)
	}

	return conn, nil
}

// reports whether a websocket handshake with raw succeeds within 5 seconds
func (d *Dialer) Probe(ctx context.Context, raw string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := d.Dial(ctx, raw, nil)
	if err != nil {
		return false
	}

	conn.Close() //nolint:errcheck,gosec // probe only
	return true
}

// strips the query string, which carries the api key
func redact(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}

	return raw
}
