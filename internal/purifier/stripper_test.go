package purifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/urlpurifier/internal/urlhandler"
)

func TestStripParams(t *testing.T) {
	u, err := urlhandler.Parse("https://a.com/?utm_source=1&id=2&pf_rd_p=3&tag=4&camp=5")
	require.NoError(t, err)

	assert.Equal(t, 1, StripParams(u, defaultMode))
	assert.Equal(t, "https://a.com/?id=2&pf_rd_p=3&tag=4&camp=5", u.String())

	assert.Equal(t, 1, StripParams(u, strongMode))
	assert.Equal(t, "https://a.com/?id=2&pf_rd_p=3&tag=4", u.String())

	assert.Equal(t, 2, StripParams(u, amazonMode))
	assert.Equal(t, "https://a.com/?id=2", u.String())
}

func TestNormalizeAmazon_NoASINLeavesURL(t *testing.T) {
	u, err := urlhandler.Parse("https://www.amazon.com/gp/help/customer?x=1")
	require.NoError(t, err)

	assert.False(t, NormalizeAmazon(u))
	assert.Equal(t, "https://www.amazon.com/gp/help/customer?x=1", u.String())
}

func TestNormalizeAmazon_RewritesPath(t *testing.T) {
	u, err := urlhandler.Parse("https://www.amazon.com/Title-Words/dp/B08N5WRWNW/ref=sr_1_1?keywords=x&th=1")
	require.NoError(t, err)

	assert.True(t, NormalizeAmazon(u))
	assert.Equal(t, "https://www.amazon.com/dp/B08N5WRWNW", u.String())
	assert.Zero(t, u.ParamCount())
}
