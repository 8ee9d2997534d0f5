package asin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/urlpurifier/internal/urlhandler"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"dp", "https://www.amazon.com/Some-Title/dp/B08N5WRWNW/ref=sr_1_1", "B08N5WRWNW", true},
		{"dp end of path", "https://www.amazon.com/dp/B08N5WRWNW", "B08N5WRWNW", true},
		{"dp lowercase", "https://www.amazon.com/dp/b08n5wrwnw", "b08n5wrwnw", true},
		{"gp product", "https://www.amazon.co.jp/gp/product/B000000000/ref=abc", "B000000000", true},
		{"product", "https://www.amazon.de/product/4003994155", "4003994155", true},
		{"dp wins over gp", "https://amazon.com/gp/product/AAAAAAAAAA/dp/BBBBBBBBBB", "BBBBBBBBBB", true},
		{"too long", "https://amazon.com/dp/B08N5WRWNWX", "", false},
		{"too short", "https://amazon.com/dp/B08N5", "", false},
		{"query asin", "https://amazon.com/s?asin=B08N5WRWNW", "B08N5WRWNW", true},
		{"query ASIN", "https://amazon.com/s?ASIN=B08N5WRWNW", "B08N5WRWNW", true},
		{"query asin invalid", "https://amazon.com/s?asin=short&ASIN=B08N5WRWNW", "", false},
		{"query asin empty falls through", "https://amazon.com/s?asin=&ASIN=B08N5WRWNW", "B08N5WRWNW", true},
		{"path before query", "https://amazon.com/dp/AAAAAAAAAA?asin=BBBBBBBBBB", "AAAAAAAAAA", true},
		{"none", "https://amazon.com/gp/cart/view.html", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := urlhandler.Parse(tt.url)
			require.NoError(t, err)

			got, ok := Extract(u)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("B000000000"))
	assert.True(t, IsValid("b0000abcde"))
	assert.False(t, IsValid("B00000000"))
	assert.False(t, IsValid("B00000000-"))
	assert.False(t, IsValid(""))
}
