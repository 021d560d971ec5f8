package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopics(t *testing.T) {
	list, err := Topics()
	require.NoError(t, err)

	slugs := make([]string, 0, len(list))
	for _, tp := range list {
		slugs = append(slugs, tp.Slug)
		assert.NotEmpty(t, tp.Title, tp.Slug)
		assert.NotEmpty(t, tp.Summary, tp.Slug)
	}
	assert.Equal(t, []string{"investing", "personal-finance", "shares-bonds", "stock-market"}, slugs)
	assert.Equal(t, "Personal Finance", list[1].Title)
}

func TestHTML(t *testing.T) {
	html, err := HTML("personal-finance")
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Personal Finance</h1>")
	assert.Contains(t, string(html), "<table>")
}

func TestUnknownTopic(t *testing.T) {
	for _, slug := range []string{"", "nope", "../content", "topics/investing"} {
		_, err := HTML(slug)
		assert.True(t, errors.Is(err, ErrTopicNotFound), slug)
	}
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("investing", 80)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Investment Basics"))
}
