package ports

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text     string
		expected string
	}{
		{text: "/start", expected: "/start"},
		{text: "/start hello there", expected: "/start"},
		{text: "  /help  ", expected: "/help"},
		{text: "/set_wallet@ethwalletbot", expected: "/set_wallet"},
		{text: "/BALANCE", expected: "/balance"},
		{text: "/unknown", expected: "/unknown"},
		{text: "0xabc", expected: ""},
		{text: "hello /start", expected: ""},
		{text: "", expected: ""},
		{text: " \n\t", expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expected, parseCommand(tc.text))
		})
	}
}
