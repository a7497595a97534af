package http

import (
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
)

// Reasons a request is flagged, used as the metric label.
const (
	reasonPath         = "path"
	reasonQuery        = "query"
	reasonUserAgent    = "user_agent"
	reasonMethod       = "method"
	reasonLongURL      = "long_url"
	reasonForwardChain = "forward_chain"
)

const (
	maxURLLength     = 2048
	maxForwardedHops = 6
)

// Peers allowed to set X-Forwarded-For and X-Real-IP.
var trustedProxies = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("::1/128"),
}

// Fragments that no expense route legitimately carries in its path or query.
var hostileFragments = []string{
	"../", "..\\", ".env", ".git", ".ssh", "wp-admin", "phpmyadmin",
	"config.php", "etc/passwd", "cmd.exe", "<script", "javascript:",
	"union select", "eval(",
}

var scannerAgents = []string{"sqlmap", "nmap", "nikto", "gobuster", "dirb", "scanner"}

func fromTrustedProxy(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range trustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP returns the caller's address. Forwarding headers are honoured only
// when the direct peer is a trusted proxy.
func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = h
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !fromTrustedProxy(peer) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}
	return host
}

// screenRequest returns why r looks like a scan or injection attempt, or ""
// when it looks ordinary. Only the first matching reason is reported.
func screenRequest(r *http.Request) string {
	switch r.Method {
	case http.MethodTrace, http.MethodConnect, "TRACK", "DEBUG":
		return reasonMethod
	}
	if containsAny(strings.ToLower(r.URL.Path), hostileFragments) {
		return reasonPath
	}
	query := r.URL.RawQuery
	if unescaped, err := url.QueryUnescape(query); err == nil {
		query = unescaped
	}
	if containsAny(strings.ToLower(query), hostileFragments) {
		return reasonQuery
	}
	if containsAny(strings.ToLower(r.UserAgent()), scannerAgents) {
		return reasonUserAgent
	}
	if len(r.URL.String()) > maxURLLength {
		return reasonLongURL
	}
	if strings.Count(r.Header.Get("X-Forwarded-For"), ",") >= maxForwardedHops {
		return reasonForwardChain
	}
	return ""
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
