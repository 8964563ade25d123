// Package netproxy computes proxy egress decisions from environment
// variables (the Proxy Detector) and builds *http.Client instances from
// persisted network settings (the HTTP Client Factory). Grounded on
// original_source/src/proxy.rs's detect_proxy/should_bypass_proxy/
// ProxyConfig::from_url/extract_host(_port).
package netproxy

import (
	"net"
	"os"
	"strconv"
	"strings"
)

// Kind is the egress mechanism selected for a target URL.
type Kind int

const (
	Direct Kind = iota
	HTTPConnect
	SOCKS4
	SOCKS5
)

// Config describes a resolved proxy, or the zero value for Direct.
type Config struct {
	Kind     Kind
	Host     string
	Port     int
	Username string
	Password string
}

func envAny(names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := os.LookupEnv(n); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Detect computes the egress decision for targetURL (ws://, wss://, http://
// or https://). Order: NO_PROXY bypass check first, then ALL_PROXY, then
// (for wss/https) HTTPS_PROXY, then HTTP_PROXY, then SOCKS_PROXY. Upper
// then lowercase of each name is checked, uppercase winning on tie.
func Detect(targetURL string) (Config, bool) {
	host := ExtractHost(targetURL)
	if ShouldBypass(host) {
		return Config{}, false
	}

	isSecure := strings.HasPrefix(targetURL, "wss://") || strings.HasPrefix(targetURL, "https://")

	if v, ok := envAny("ALL_PROXY", "all_proxy"); ok {
		if cfg, ok := FromURL(v); ok {
			return cfg, true
		}
	}
	if isSecure {
		if v, ok := envAny("HTTPS_PROXY", "https_proxy"); ok {
			if cfg, ok := FromURL(v); ok {
				return cfg, true
			}
		}
	}
	if v, ok := envAny("HTTP_PROXY", "http_proxy"); ok {
		if cfg, ok := FromURL(v); ok {
			return cfg, true
		}
	}
	if v, ok := envAny("SOCKS_PROXY", "socks_proxy"); ok {
		if cfg, ok := FromURL(v); ok {
			return cfg, true
		}
	}
	return Config{}, false
}

// ShouldBypass reports whether host matches a NO_PROXY/no_proxy entry.
func ShouldBypass(host string) bool {
	v, ok := envAny("NO_PROXY", "no_proxy")
	if !ok {
		return false
	}
	for _, entry := range strings.Split(v, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if entry == "*" {
			return true
		}
		if strings.HasPrefix(entry, ".") {
			suffix := strings.TrimPrefix(entry, ".")
			if host == suffix || strings.HasSuffix(host, entry) {
				return true
			}
			continue
		}
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}

// FromURL parses a proxy URL (user:pass@host:port with optional scheme)
// into a Config. Missing scheme defaults to HTTP CONNECT.
func FromURL(raw string) (Config, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Config{}, false
	}

	kind := HTTPConnect
	defaultPort := 80
	rest := raw
	switch {
	case strings.HasPrefix(raw, "socks4://"), strings.HasPrefix(raw, "socks4a://"):
		kind = SOCKS4
		defaultPort = 1080
		rest = afterScheme(raw)
	case strings.HasPrefix(raw, "socks5://"), strings.HasPrefix(raw, "socks5h://"), strings.HasPrefix(raw, "socks://"):
		kind = SOCKS5
		defaultPort = 1080
		rest = afterScheme(raw)
	case strings.HasPrefix(raw, "https://"):
		kind = HTTPConnect
		defaultPort = 443
		rest = afterScheme(raw)
	case strings.HasPrefix(raw, "http://"):
		kind = HTTPConnect
		defaultPort = 80
		rest = afterScheme(raw)
	}

	var user, pass string
	if at := strings.Index(rest, "@"); at != -1 {
		auth := rest[:at]
		rest = rest[at+1:]
		if colon := strings.Index(auth, ":"); colon != -1 {
			user, pass = auth[:colon], auth[colon+1:]
		} else {
			user = auth
		}
	}

	if slash := strings.Index(rest, "/"); slash != -1 {
		rest = rest[:slash]
	}

	host, port := rest, defaultPort
	if idx := strings.LastIndex(rest, ":"); idx != -1 {
		host = rest[:idx]
		if p, err := strconv.Atoi(rest[idx+1:]); err == nil {
			port = p
		}
	}
	if host == "" {
		return Config{}, false
	}

	return Config{Kind: kind, Host: host, Port: port, Username: user, Password: pass}, true
}

func afterScheme(raw string) string {
	if idx := strings.Index(raw, "://"); idx != -1 {
		return raw[idx+3:]
	}
	return raw
}

// ExtractHost strips scheme, path/query, and port (with IPv6 [..] support)
// from a ws(s):// or http(s):// URL, returning the bare host.
func ExtractHost(rawURL string) string {
	rest := rawURL
	for _, scheme := range []string{"wss://", "ws://", "https://", "http://"} {
		if strings.HasPrefix(rest, scheme) {
			rest = rest[len(scheme):]
			break
		}
	}
	if slash := strings.Index(rest, "/"); slash != -1 {
		rest = rest[:slash]
	}
	if strings.HasPrefix(rest, "[") {
		if end := strings.Index(rest, "]"); end != -1 {
			return rest[:end+1]
		}
		return rest
	}
	if idx := strings.LastIndex(rest, ":"); idx != -1 {
		return rest[:idx]
	}
	return rest
}

// ExtractHostPort strips scheme/path from rawURL and returns host and port,
// defaulting to 80/443 for ws/wss (443 also applies to https, 80 to http).
// IPv6 literals in [..] are handled explicitly, matching
// original_source/src/proxy.rs's extract_host_port.
func ExtractHostPort(rawURL string) (string, int, error) {
	defaultPort := 80
	rest := rawURL
	switch {
	case strings.HasPrefix(rest, "wss://"):
		rest = rest[len("wss://"):]
		defaultPort = 443
	case strings.HasPrefix(rest, "ws://"):
		rest = rest[len("ws://"):]
		defaultPort = 80
	case strings.HasPrefix(rest, "https://"):
		rest = rest[len("https://"):]
		defaultPort = 443
	case strings.HasPrefix(rest, "http://"):
		rest = rest[len("http://"):]
		defaultPort = 80
	}
	if slash := strings.Index(rest, "/"); slash != -1 {
		rest = rest[:slash]
	}

	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end == -1 {
			return "", 0, &net.AddrError{Err: "missing ']' in address", Addr: rawURL}
		}
		host := rest[:end+1]
		remainder := rest[end+1:]
		if strings.HasPrefix(remainder, ":") {
			port, err := strconv.Atoi(remainder[1:])
			if err != nil {
				return "", 0, err
			}
			return host, port, nil
		}
		return host, defaultPort, nil
	}

	if idx := strings.LastIndex(rest, ":"); idx != -1 {
		port, err := strconv.Atoi(rest[idx+1:])
		if err != nil {
			return rest, defaultPort, nil
		}
		return rest[:idx], port, nil
	}
	return rest, defaultPort, nil
}
