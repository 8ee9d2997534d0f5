package extractor

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!doctype html>
<html><head><title>t</title></head>
<body>
  <a href="https://example.com/a?utm_source=x">one</a>
  <a href="  https://example.com/b  ">two</a>
  <a href="#top">skip</a>
  <a href="javascript:void(0)">skip</a>
  <a HREF="MAILTO:me@example.com">skip</a>
  <a>no href</a>
  <map><area href="https://example.com/map?fbclid=1"></map>
  <a href="https://example.com/a?utm_source=x">dup</a>
</body></html>`

func TestLinkExtractor_Extract(t *testing.T) {
	links, err := NewLinkExtractor(zerolog.Nop()).Extract(strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/a?utm_source=x",
		"https://example.com/b",
		"https://example.com/map?fbclid=1",
		"https://example.com/a?utm_source=x",
	}, links)
}

func TestLinkExtractor_Unique(t *testing.T) {
	links, err := NewLinkExtractor(zerolog.Nop()).WithUnique(true).Extract(strings.NewReader(samplePage))
	require.NoError(t, err)
	assert.Len(t, links, 3)
}

func TestLinkExtractor_BaseHref(t *testing.T) {
	page := `<html><head><base href="https://shop.example.com/dir/"></head>
<body><a href="item?ref=abc">rel</a><a href="/root">abs path</a><a href="https://other.org/x">abs</a></body></html>`

	links, err := NewLinkExtractor(zerolog.Nop()).Extract(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://shop.example.com/dir/item?ref=abc",
		"https://shop.example.com/root",
		"https://other.org/x",
	}, links)
}

func TestLinkExtractor_RelativeBaseIgnored(t *testing.T) {
	page := `<base href="/static/"><a href="page.html">x</a>`
	links, err := NewLinkExtractor(zerolog.Nop()).Extract(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, []string{"page.html"}, links)
}

func TestLinkExtractor_NoLinks(t *testing.T) {
	links, err := NewLinkExtractor(zerolog.Nop()).Extract(strings.NewReader("plain text, no markup"))
	require.NoError(t, err)
	assert.Empty(t, links)
}
