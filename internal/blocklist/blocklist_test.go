package blocklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListSizes(t *testing.T) {
	assert.Len(t, CommonNames(), 14)
	assert.Len(t, StrongNames(), 13)
	assert.Len(t, AmazonNames(), 13)
	assert.Equal(t, []string{"utm_", "vero_", "pk_"}, CommonPrefixes())
}

func TestAccessorsReturnCopies(t *testing.T) {
	names := CommonNames()
	names[0] = "mutated"
	assert.Equal(t, "fbclid", CommonNames()[0])
}

func TestRemovalSet(t *testing.T) {
	base := RemovalSet(Mode{})
	assert.Len(t, base, 14)
	assert.Contains(t, base, "fbclid")
	assert.NotContains(t, base, "ttclid")
	assert.NotContains(t, base, "tag")

	strong := RemovalSet(Mode{Strong: true})
	assert.Contains(t, strong, "ttclid")
	assert.NotContains(t, strong, "tag")

	amazon := RemovalSet(Mode{Amazon: true})
	assert.Contains(t, amazon, "tag")
	assert.Contains(t, amazon, "linkcode")
	assert.Contains(t, amazon, "creativeasin")

	// creative and camp are shared between strong and amazon.
	all := RemovalSet(Mode{Strong: true, Amazon: true})
	assert.Len(t, all, 14+13+13-2)
}

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want bool
	}{
		{"fbclid", Mode{}, true},
		{"FBCLID", Mode{}, true},
		{"utm_source", Mode{}, true},
		{"UTM_Medium", Mode{}, true},
		{"pk_campaign", Mode{}, true},
		{"vero_id", Mode{}, true},
		{"id", Mode{}, false},
		{"utm", Mode{}, false},
		{"ttclid", Mode{}, false},
		{"ttclid", Mode{Strong: true}, true},
		{"tag", Mode{Strong: true}, false},
		{"tag", Mode{Amazon: true}, true},
		{"LinkCode", Mode{Amazon: true}, true},
		{"pf_rd_p", Mode{}, false},
		{"pf_rd_p", Mode{Amazon: true}, true},
		{"PF_RD_R", Mode{Amazon: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBlocked(tt.name, tt.mode))
		})
	}
}

func TestIsAmazonHost(t *testing.T) {
	hosts := map[string]bool{
		"amazon.com":          true,
		"www.amazon.com":      true,
		"WWW.AMAZON.CO.JP":    true,
		"smile.amazon.de":     true,
		"amazon.com.mx":       true,
		"www.amazon.com.au":   true,
		"amazon.tr":           true,
		"amazon.cn":           false,
		"notamazon.com":       false,
		"amazon.com.evil.org": false,
		"example.com":         false,
		"":                    false,
	}
	for host, want := range hosts {
		assert.Equal(t, want, IsAmazonHost(host), host)
	}
}
