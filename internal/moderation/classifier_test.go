package moderation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"askboard/internal/moderation"
)

func TestTermClassifier(t *testing.T) {
	c := moderation.NewTermClassifier()

	t.Run("clean text passes", func(t *testing.T) {
		res := c.Classify("could you repeat the part about indexes?")
		require.False(t, res.Flagged)
		require.Empty(t, res.Reasons)
	})

	t.Run("flags terms case-insensitively", func(t *testing.T) {
		res := c.Classify("this is CRAP")
		require.True(t, res.Flagged)
		require.NotEmpty(t, res.Reasons)
		require.Contains(t, res.Reasons[0], "crap")
	})

	t.Run("flags script tags", func(t *testing.T) {
		res := c.Classify(`<script>alert("hi")</script>`)
		require.True(t, res.Flagged)
		require.Contains(t, res.Reasons, "contains script tag markup")
	})

	t.Run("flags inline event handlers", func(t *testing.T) {
		res := c.Classify(`<img src=x onerror="steal()">`)
		require.True(t, res.Flagged)
		require.Contains(t, res.Reasons, "contains inline event handler attributes")
	})

	t.Run("flags javascript URLs", func(t *testing.T) {
		res := c.Classify(`click <a href="javascript:alert(1)">here</a>`)
		require.True(t, res.Flagged)
		require.Contains(t, res.Reasons, "contains javascript URL scheme")
	})

	t.Run("collects multiple reasons in order", func(t *testing.T) {
		res := c.Classify(`crap <script>x</script>`)
		require.True(t, res.Flagged)
		require.GreaterOrEqual(t, len(res.Reasons), 2)
		require.Equal(t, "contains script tag markup", res.Reasons[len(res.Reasons)-1])
	})
}
