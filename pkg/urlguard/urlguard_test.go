package urlguard

import (
	"context"
	"errors"
	"net"
	"testing"
)

// fakeResolver returns a fixed answer for every lookup.
type fakeResolver struct {
	ips []net.IP
	err error
}

func (f *fakeResolver) LookupIP(_ context.Context, _, _ string) ([]net.IP, error) {
	return f.ips, f.err
}

func newTestGuard(t *testing.T, ips []net.IP, lookupErr error) *Guard {
	t.Helper()
	g, err := New(nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return g.WithResolver(&fakeResolver{ips: ips, err: lookupErr})
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Kind != kind {
		t.Errorf("error kind = %v, want %v", verr.Kind, kind)
	}
}

func TestValidate_RejectsNonHTTPSchemes(t *testing.T) {
	g := newTestGuard(t, []net.IP{net.ParseIP("93.184.216.34")}, nil)

	for _, rawURL := range []string{
		"ftp://example.com",
		"file:///etc/passwd",
		"gopher://example.com",
		"javascript:alert(1)",
	} {
		_, err := g.Validate(context.Background(), rawURL)
		if err == nil {
			t.Errorf("Validate(%q) succeeded, want invalid scheme error", rawURL)
			continue
		}
		wantKind(t, err, KindInvalidScheme)
	}
}

func TestValidate_RejectsMissingHost(t *testing.T) {
	g := newTestGuard(t, nil, nil)

	_, err := g.Validate(context.Background(), "http:///path")
	if err == nil {
		t.Fatal("Validate() succeeded, want missing host error")
	}
	wantKind(t, err, KindMissingHost)
}

func TestValidate_BlocksMetadataHosts(t *testing.T) {
	g := newTestGuard(t, []net.IP{net.ParseIP("93.184.216.34")}, nil)

	for _, rawURL := range []string{
		"http://metadata.google.internal/computeMetadata/v1/",
		"http://Metadata.Google.Internal/",
		"http://metadata.azure.internal/",
	} {
		_, err := g.Validate(context.Background(), rawURL)
		if err == nil {
			t.Errorf("Validate(%q) succeeded, want blocked host error", rawURL)
			continue
		}
		wantKind(t, err, KindBlockedHost)
	}
}

func TestValidate_BlocksPrivateNetworks(t *testing.T) {
	tests := []struct {
		name string
		ip   string
	}{
		{"rfc1918 10/8", "10.0.0.5"},
		{"rfc1918 172.16/12", "172.20.1.1"},
		{"rfc1918 192.168/16", "192.168.1.1"},
		{"loopback", "127.0.0.1"},
		{"link-local", "169.254.169.254"},
		{"this-network", "0.0.0.1"},
		{"ipv6 loopback", "::1"},
		{"ipv6 unique-local", "fc00::1"},
		{"ipv6 link-local", "fe80::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGuard(t, []net.IP{net.ParseIP(tt.ip)}, nil)
			_, err := g.Validate(context.Background(), "http://internal.example.com/")
			if err == nil {
				t.Fatalf("Validate() succeeded for host resolving to %s", tt.ip)
			}
			wantKind(t, err, KindBlockedNetwork)
		})
	}
}

func TestValidate_BlocksPrivateIPLiterals(t *testing.T) {
	// Resolver must not be consulted for IP literals.
	g := newTestGuard(t, nil, errors.New("no dns expected"))

	for _, rawURL := range []string{
		"http://127.0.0.1:8080/admin",
		"http://10.1.2.3/",
		"http://[::1]/",
		"http://[fe80::1]/",
	} {
		_, err := g.Validate(context.Background(), rawURL)
		if err == nil {
			t.Errorf("Validate(%q) succeeded, want blocked network error", rawURL)
			continue
		}
		wantKind(t, err, KindBlockedNetwork)
	}
}

func TestValidate_RejectsWhenAnyAddressIsPrivate(t *testing.T) {
	// DNS rebinding defense: one public plus one private answer must fail.
	g := newTestGuard(t, []net.IP{
		net.ParseIP("93.184.216.34"),
		net.ParseIP("192.168.0.10"),
	}, nil)

	_, err := g.Validate(context.Background(), "http://rebind.example.com/")
	if err == nil {
		t.Fatal("Validate() succeeded with mixed public/private resolution")
	}
	wantKind(t, err, KindBlockedNetwork)
}

func TestValidate_UnresolvableHost(t *testing.T) {
	g := newTestGuard(t, nil, errors.New("no such host"))

	_, err := g.Validate(context.Background(), "http://does-not-exist.invalid/")
	if err == nil {
		t.Fatal("Validate() succeeded, want unresolvable host error")
	}
	wantKind(t, err, KindUnresolvableHost)
}

func TestValidate_AllowsPublicHosts(t *testing.T) {
	g := newTestGuard(t, []net.IP{net.ParseIP("93.184.216.34")}, nil)

	v, err := g.Validate(context.Background(), "https://example.com/articles/1?ref=x")
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if v.Hostname != "example.com" {
		t.Errorf("Hostname = %q, want %q", v.Hostname, "example.com")
	}
	if len(v.Addrs) != 1 {
		t.Errorf("resolved %d addrs, want 1", len(v.Addrs))
	}
}

func TestValidate_BlockedPatterns(t *testing.T) {
	g, err := New([]string{`\.internal\.corp`, `staging\.`})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	g.WithResolver(&fakeResolver{ips: []net.IP{net.ParseIP("93.184.216.34")}})

	_, err = g.Validate(context.Background(), "https://api.Internal.Corp/secrets")
	if err == nil {
		t.Fatal("Validate() succeeded, want blocked pattern error")
	}
	wantKind(t, err, KindBlockedHost)

	if _, err := g.Validate(context.Background(), "https://example.com/"); err != nil {
		t.Errorf("Validate() blocked an unrelated URL: %v", err)
	}
}

func TestNew_RejectsInvalidPattern(t *testing.T) {
	if _, err := New([]string{"("}); err == nil {
		t.Error("New() accepted an invalid regexp")
	}
}
