package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "paragraphs become lines",
			input:    "<p>Benchmark <b>10-year</b> yields rose.</p><p>Traders watch the minutes.</p>",
			expected: "Benchmark 10-year yields rose.\nTraders watch the minutes.",
		},
		{
			name:     "list items",
			input:    "<ul><li>Revenue tripled.</li><li>Guidance topped consensus.</li></ul>",
			expected: "Revenue tripled.\nGuidance topped consensus.",
		},
		{
			name:     "scripts and styles dropped",
			input:    "<div><p>Sales rose.</p><script>trackView()</script><style>p{}</style></div>",
			expected: "Sales rose.",
		},
		{
			name:     "plain text",
			input:    "  Claims dropped   to 209,000. ",
			expected: "Claims dropped to 209,000.",
		},
		{
			name:     "entities decoded",
			input:    "<p>S&amp;P 500 &gt; 5,000</p>",
			expected: "S&P 500 > 5,000",
		},
		{
			name:     "empty",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanHTML(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
