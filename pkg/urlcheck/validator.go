// Package urlcheck classifies candidate URLs as safe to fetch. It guards the
// pipeline against SSRF: only http/https schemes are allowed and any URL whose
// host resolves to a private, loopback or link-local address is rejected.
package urlcheck

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
)

// Reason identifies why a URL was rejected
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonInvalidURL        Reason = "invalid_url"
	ReasonUnsupportedScheme Reason = "unsupported_scheme"
	ReasonTooLong           Reason = "url_too_long"
	ReasonPrivateAddress    Reason = "private_address"
	ReasonResolveFailed     Reason = "resolve_failed"
)

// Result is the outcome of a validation. Rejection is a classification, not
// an error; callers branch on OK and Reason. ResolveFailed is the only
// transient reason - DNS may recover, so the worker treats it as retryable.
type Result struct {
	OK     bool
	Reason Reason
	Detail string
}

// Retryable reports whether the rejection may clear up on its own
func (r Result) Retryable() bool { return r.Reason == ReasonResolveFailed }

// Resolver resolves a hostname to IP addresses, stubbed in tests
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// blockedRanges covers private, loopback and link-local space for both
// address families
var blockedRanges = func() []netip.Prefix {
	cidrs := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	}
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		prefixes = append(prefixes, netip.MustParsePrefix(c))
	}
	return prefixes
}()

// Validator checks URLs against the scheme allow-list, a length limit and
// the blocked address ranges. Safe for concurrent use, no mutable state.
type Validator struct {
	maxURLLength int
	resolver     Resolver
}

// New creates a validator. With a nil resolver the system DNS resolver is
// used. maxURLLength <= 0 disables the length check.
func New(maxURLLength int, resolver Resolver) *Validator {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Validator{maxURLLength: maxURLLength, resolver: resolver}
}

// Validate classifies rawURL as fetch-safe or rejected. The only side effect
// is the DNS lookup; failures never escape as errors.
func (v *Validator) Validate(ctx context.Context, rawURL string) Result {
	if v.maxURLLength > 0 && len(rawURL) > v.maxURLLength {
		return Result{Reason: ReasonTooLong, Detail: fmt.Sprintf("url length %d exceeds %d", len(rawURL), v.maxURLLength)}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Result{Reason: ReasonInvalidURL, Detail: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Result{Reason: ReasonUnsupportedScheme, Detail: fmt.Sprintf("scheme %q not allowed", u.Scheme)}
	}
	host := u.Hostname()
	if host == "" {
		return Result{Reason: ReasonInvalidURL, Detail: "missing host"}
	}

	// literal addresses don't need DNS
	if addr, parseErr := netip.ParseAddr(host); parseErr == nil {
		if blocked(addr) {
			return Result{Reason: ReasonPrivateAddress, Detail: fmt.Sprintf("address %s is in a blocked range", addr)}
		}
		return Result{OK: true}
	}

	addrs, err := v.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return Result{Reason: ReasonResolveFailed, Detail: fmt.Sprintf("resolve %s: %v", host, err)}
	}
	if len(addrs) == 0 {
		return Result{Reason: ReasonResolveFailed, Detail: fmt.Sprintf("resolve %s: no addresses", host)}
	}

	// reject if ANY resolved address is blocked, re-checked on every redirect
	// hop by the resolver to defend against DNS rebinding
	for _, ia := range addrs {
		addr, ok := netip.AddrFromSlice(ia.IP)
		if !ok {
			return Result{Reason: ReasonResolveFailed, Detail: fmt.Sprintf("resolve %s: bad address %v", host, ia.IP)}
		}
		if blocked(addr) {
			return Result{Reason: ReasonPrivateAddress, Detail: fmt.Sprintf("%s resolves to blocked address %s", host, addr)}
		}
	}

	return Result{OK: true}
}

func blocked(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range blockedRanges {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
