package scraper

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{raw: "John Smith\n123 Main St", want: "John Smith"},
		{raw: "Jane Doe – District 5", want: "Jane Doe"},
		{raw: "A.B.", want: "A.B"},
		{raw: "  Grace Meng  ", want: "Grace Meng"},
		{raw: "John Liu | Senate District 11", want: "John Liu"},
		{raw: "Sandra Ung: Council District 20", want: "Sandra Ung"},
		{raw: "Nily Rozic 159-06 71st Avenue", want: "Nily Rozic"},
		{raw: "Toby Ann Stavisky,", want: "Toby Ann Stavisky"},
		{raw: "Ron Kim;  ", want: "Ron Kim"},
		{raw: "136-20 38th Ave", want: ""},
		{raw: "", want: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.want, CleanName(test.raw), "%q", test.raw)
	}
}

func TestCleanNameOnlyFirstSeparatorSplits(t *testing.T) {
	// The newline wins over the colon even though the colon comes first.
	require.Equal(t, "Office: Jane Doe", CleanName("Office: Jane Doe\nsecond line"))
}

func TestCleanNameDropsDigitTokens(t *testing.T) {
	inputs := []string{
		"Mary Smith Suite 4B",
		"Room 12 Mary Smith",
		"Mary 2nd Smith",
		"Mary Smith, 250 Broadway, New York NY 10007",
	}

	for _, raw := range inputs {
		got := CleanName(raw)
		require.Equal(t, -1, strings.IndexFunc(got, unicode.IsDigit), "%q -> %q", raw, got)
		for _, tok := range strings.Fields(raw) {
			if strings.IndexFunc(tok, unicode.IsDigit) >= 0 {
				require.NotContains(t, strings.Fields(got), tok)
			}
		}
	}
}

func TestValidName(t *testing.T) {
	require.False(t, ValidName(""))
	require.False(t, ValidName("Al"))
	require.True(t, ValidName("Ann"))
}
