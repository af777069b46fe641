// Package identity derives the voter identity string that duplicate-vote
// checks key on. It is a network-address heuristic, not authentication.
package identity

import (
	"encoding/hex"
	"net"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Unknown is the sentinel identity used when no address can be derived.
const Unknown = "unknown"

type Deriver struct {
	// Anonymize replaces the raw address with a keyed blake2b digest so
	// addresses never reach storage in the clear.
	Anonymize bool
	Salt      string
}

// FromRequest returns the voter identity for a request: the first valid
// address in the X-Forwarded-For chain, then the direct connection address,
// then Unknown. The result is hashed when Anonymize is set.
func (d Deriver) FromRequest(r *http.Request) string {
	addr := clientAddr(r)
	if !d.Anonymize || addr == Unknown {
		return addr
	}
	return d.hash(addr)
}

func (d Deriver) hash(addr string) string {
	h, err := blake2b.New256([]byte(d.Salt))
	if err != nil {
		// Key longer than 64 bytes; fall back to unkeyed digest.
		sum := blake2b.Sum256([]byte(d.Salt + addr))
		return hex.EncodeToString(sum[:])
	}
	h.Write([]byte(addr))
	return hex.EncodeToString(h.Sum(nil))
}

func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for _, part := range strings.Split(fwd, ",") {
			candidate := strings.TrimSpace(part)
			if ip := net.ParseIP(candidate); ip != nil {
				return ip.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}
	return Unknown
}
