// Package urlguard validates URLs before any network call is made.
//
// It blocks non-HTTP schemes, known metadata endpoints, user-configured
// URL patterns, and any hostname resolving to a private, loopback,
// link-local, or otherwise reserved address (SSRF protection).
package urlguard

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
)

// Kind classifies why validation failed.
type Kind int

const (
	KindInvalidScheme Kind = iota
	KindMissingHost
	KindBlockedHost
	KindBlockedNetwork
	KindUnresolvableHost
)

func (k Kind) String() string {
	switch k {
	case KindInvalidScheme:
		return "invalid_scheme"
	case KindMissingHost:
		return "missing_host"
	case KindBlockedHost:
		return "blocked_host"
	case KindBlockedNetwork:
		return "blocked_network"
	case KindUnresolvableHost:
		return "unresolvable_host"
	}
	return "unknown"
}

// ValidationError reports a URL that failed a security check.
type ValidationError struct {
	Kind   Kind
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ValidatedURL is the outcome of a successful validation. The resolved
// address set is a point-in-time snapshot; callers must re-validate at
// fetch time because DNS answers are not stable.
type ValidatedURL struct {
	URL      *url.URL
	Hostname string
	Addrs    []netip.Addr
}

// blockedNetworks are address ranges that must never be fetched.
var blockedNetworks = mustParsePrefixes(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"0.0.0.0/8",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
)

// blockedHosts are cloud metadata endpoints blocked regardless of resolution.
var blockedHosts = map[string]struct{}{
	"metadata.google.internal": {},
	"169.254.169.254":          {},
	"metadata.azure.internal":  {},
}

func mustParsePrefixes(cidrs ...string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		prefixes = append(prefixes, netip.MustParsePrefix(c))
	}
	return prefixes
}

// Resolver is the subset of net.Resolver used by the guard. Injected so
// tests can run without live DNS.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// Guard validates candidate URLs against scheme, hostname, and network rules.
type Guard struct {
	resolver        Resolver
	blockedPatterns []*regexp.Regexp
}

// New builds a Guard using the system resolver and the given additional
// blocked URL patterns. Invalid patterns are rejected.
func New(blockedPatterns []string) (*Guard, error) {
	g := &Guard{resolver: net.DefaultResolver}
	for _, p := range blockedPatterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid blocked URL pattern %q: %w", p, err)
		}
		g.blockedPatterns = append(g.blockedPatterns, re)
	}
	return g, nil
}

// WithResolver replaces the DNS resolver. Used by tests.
func (g *Guard) WithResolver(r Resolver) *Guard {
	g.resolver = r
	return g
}

// Validate checks rawURL and resolves its hostname. Every resolved address
// must fall outside the blocked ranges; a single private address fails the
// whole URL. The check runs a DNS lookup but performs no other network I/O.
func (g *Guard) Validate(ctx context.Context, rawURL string) (*ValidatedURL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, &ValidationError{
			Kind:   KindInvalidScheme,
			Reason: fmt.Sprintf("could not parse URL: %v", err),
		}
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, &ValidationError{
			Kind:   KindInvalidScheme,
			Reason: fmt.Sprintf("invalid URL scheme %q: only http and https are allowed", parsed.Scheme),
		}
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return nil, &ValidationError{
			Kind:   KindMissingHost,
			Reason: "URL must include a valid hostname",
		}
	}

	if _, blocked := blockedHosts[strings.ToLower(hostname)]; blocked {
		return nil, &ValidationError{
			Kind:   KindBlockedHost,
			Reason: "access to this host is not permitted",
		}
	}

	for _, re := range g.blockedPatterns {
		if re.MatchString(rawURL) {
			return nil, &ValidationError{
				Kind:   KindBlockedHost,
				Reason: "this URL matches a blocked pattern",
			}
		}
	}

	// IP literals skip DNS but still go through the range check.
	var addrs []netip.Addr
	if literal, err := netip.ParseAddr(strings.Trim(hostname, "[]")); err == nil {
		addrs = []netip.Addr{literal}
	} else {
		ips, err := g.resolver.LookupIP(ctx, "ip", hostname)
		if err != nil || len(ips) == 0 {
			return nil, &ValidationError{
				Kind:   KindUnresolvableHost,
				Reason: fmt.Sprintf("could not resolve hostname %q", hostname),
			}
		}
		for _, ip := range ips {
			if addr, ok := netip.AddrFromSlice(ip); ok {
				addrs = append(addrs, addr.Unmap())
			}
		}
	}

	for _, addr := range addrs {
		if isBlockedAddr(addr) {
			return nil, &ValidationError{
				Kind:   KindBlockedNetwork,
				Reason: "access to private/internal network addresses is not permitted",
			}
		}
	}

	return &ValidatedURL{URL: parsed, Hostname: hostname, Addrs: addrs}, nil
}

func isBlockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range blockedNetworks {
		if prefix.Addr().Is4() != addr.Is4() {
			continue
		}
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
