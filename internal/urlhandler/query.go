package urlhandler

import (
	"net/url"
	"strings"
)

// Param is a single query parameter. Keys keep their original case.
type Param struct {
	Key   string
	Value string
}

// parseQuery splits a raw query into ordered parameters using form
// decoding. Empty segments are skipped and a key without "=" gets an empty
// value. Undecodable escapes are kept literally.
func parseQuery(rawQuery string) []Param {
	if rawQuery == "" {
		return nil
	}
	var params []Param
	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		params = append(params, Param{Key: formDecode(key), Value: formDecode(value)})
	}
	return params
}

func formDecode(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}
	return decoded
}

// encodeQuery serializes params in order with form encoding.
func encodeQuery(params []Param) string {
	if len(params) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
