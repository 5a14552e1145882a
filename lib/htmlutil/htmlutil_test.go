package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "board document markup",
			input:    `<document version="2.0"><paragraph>How do I submit?</paragraph><paragraph>Thanks!</paragraph></document>`,
			expected: "How do I submit?\nThanks!",
		},
		{
			name:     "nested formatting",
			input:    "<p>see   the <b>syllabus</b></p><p>page 2</p>",
			expected: "see the syllabus\npage 2",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.expected, Flatten(c.input))
		})
	}
}
