package urlhandler

import (
	"errors"
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var (
	schemeRegex      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+\-.]*://`)
	domainShapeRegex = regexp.MustCompile(`^[\p{L}\p{N}-]+(\.[\p{L}\p{N}-]+)+\.?(:\d+)?([/?#].*)?$`)

	defaultPorts = map[string]string{
		"http":  "80",
		"https": "443",
		"ws":    "80",
		"wss":   "443",
		"ftp":   "21",
	}
)

// DefaultScheme is prepended to input that carries no scheme.
const DefaultScheme = "https"

// HasScheme reports whether s starts with "scheme://".
func HasScheme(s string) bool {
	return schemeRegex.MatchString(s)
}

// LooksLikeURL reports whether s either has a scheme or is shaped like a
// dot-separated host name, optionally followed by a port and a path, query
// or fragment.
func LooksLikeURL(s string) bool {
	return HasScheme(s) || domainShapeRegex.MatchString(s)
}

// EnsureScheme prepends DefaultScheme to s when it carries no scheme.
func EnsureScheme(s string) string {
	if HasScheme(s) {
		return s
	}
	return DefaultScheme + "://" + s
}

// ParsedURL is a parsed URL whose query is kept as an ordered list of
// parameters. It is not safe for concurrent use.
type ParsedURL struct {
	u          *url.URL
	rawQuery   string
	params     []Param
	queryDirty bool
}

// Parse parses an absolute URL. The scheme and host are lowercased,
// internationalized host names are converted to their ASCII form and a
// default port for the scheme is dropped. A '%' that does not start a
// valid escape is read as a literal percent sign and serialized as %25.
// Input without a host is rejected.
func Parse(raw string) (*ParsedURL, error) {
	u, err := url.Parse(raw)
	var escErr url.EscapeError
	if errors.As(err, &escErr) {
		u, err = url.Parse(escapeStrayPercents(raw))
	}
	if err != nil {
		return nil, WrapError(err, ErrInvalidURL.Error())
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidURL
	}

	host, err := normalizeHost(u.Hostname())
	if err != nil {
		return nil, WrapError(err, ErrInvalidURL.Error())
	}
	port := u.Port()
	if port == defaultPorts[u.Scheme] {
		port = ""
	}
	u.Host = joinHostPort(host, port)

	return &ParsedURL{
		u:        u,
		rawQuery: u.RawQuery,
		params:   parseQuery(u.RawQuery),
	}, nil
}

// escapeStrayPercents rewrites every '%' not followed by two hex digits as %25
func escapeStrayPercents(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func normalizeHost(hostname string) (string, error) {
	if hostname == "" {
		return "", ErrInvalidURL
	}
	if strings.Contains(hostname, ":") {
		// IPv6 literal
		return strings.ToLower(hostname), nil
	}
	if isASCII(hostname) {
		return strings.ToLower(hostname), nil
	}
	return idna.Lookup.ToASCII(hostname)
}

func joinHostPort(host, port string) string {
	if strings.Contains(host, ":") {
		if port == "" {
			return "[" + host + "]"
		}
		return net.JoinHostPort(host, port)
	}
	if port == "" {
		return host
	}
	return host + ":" + port
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Scheme returns the lowercase scheme.
func (p *ParsedURL) Scheme() string { return p.u.Scheme }

// Hostname returns the host without port or IPv6 brackets.
func (p *ParsedURL) Hostname() string { return p.u.Hostname() }

// EscapedPath returns the percent-encoded path.
func (p *ParsedURL) EscapedPath() string {
	path := p.u.EscapedPath()
	if path == "" && p.isSpecial() {
		return "/"
	}
	return path
}

// SetEscapedPath replaces the path with an already percent-encoded value.
func (p *ParsedURL) SetEscapedPath(escaped string) {
	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		decoded = escaped
	}
	p.u.Path = decoded
	p.u.RawPath = escaped
	if decoded == escaped {
		p.u.RawPath = ""
	}
}

// Fragment returns the decoded fragment.
func (p *ParsedURL) Fragment() string { return p.u.Fragment }

// Params returns a copy of the current query parameters in order.
func (p *ParsedURL) Params() []Param {
	out := make([]Param, len(p.params))
	copy(out, p.params)
	return out
}

// ParamCount returns the number of query parameters, counting repeats.
func (p *ParsedURL) ParamCount() int { return len(p.params) }

// Get returns the value of the first parameter whose key equals key exactly.
func (p *ParsedURL) Get(key string) (string, bool) {
	for _, param := range p.params {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// RemoveParams drops every parameter for which drop returns true and
// returns how many were removed. Survivors keep their order.
func (p *ParsedURL) RemoveParams(drop func(key string) bool) int {
	kept := p.params[:0]
	removed := 0
	for _, param := range p.params {
		if drop(param.Key) {
			removed++
			continue
		}
		kept = append(kept, param)
	}
	p.params = kept
	if removed > 0 {
		p.queryDirty = true
	}
	return removed
}

// ClearQuery removes the whole query string.
func (p *ParsedURL) ClearQuery() {
	p.params = nil
	p.queryDirty = true
}

// HasQuery reports whether serializing would emit a non-empty query.
func (p *ParsedURL) HasQuery() bool {
	if p.queryDirty {
		return len(p.params) > 0
	}
	return p.rawQuery != ""
}

// String serializes the URL. The original query encoding is kept until a
// parameter is removed; after that the remaining parameters are form
// encoded in order.
func (p *ParsedURL) String() string {
	u := *p.u
	if p.queryDirty {
		u.RawQuery = encodeQuery(p.params)
		u.ForceQuery = false
	}
	if u.Path == "" && u.RawPath == "" && p.isSpecial() {
		u.Path = "/"
	}
	return u.String()
}

func (p *ParsedURL) isSpecial() bool {
	_, ok := defaultPorts[p.u.Scheme]
	return ok
}

// RegistrableDomain returns the eTLD+1 of hostname, or the lowercased
// hostname itself when no public suffix applies (IP addresses, single
// labels, unknown suffixes).
func RegistrableDomain(hostname string) string {
	host := strings.ToLower(strings.TrimSuffix(hostname, "."))
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
