package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral(t *testing.T) {
	assert.Equal(t, "'plain'", Literal("plain"))
	assert.Equal(t, `"it's"`, Literal("it's"))
	assert.Equal(t, `concat('a', "'", 'b"c')`, Literal(`a'b"c`))
}

func TestContainsFold(t *testing.T) {
	got := ContainsFold("text()", "Sign In")
	assert.Equal(t,
		"contains(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'sign in')", got)

	joined := AnyContainsFold("@id", "a", "b")
	assert.Contains(t, joined, " or ")
}

func TestContainsFoldMatchesHTMLPage(t *testing.T) {
	p := NewHTMLPage(map[string]string{"https://x.test/": `<body><a>LOGIN here</a><a>Other</a></body>`})
	require.NoError(t, p.Launch(t.Context()))
	require.NoError(t, p.Navigate(t.Context(), "https://x.test/"))

	found, err := p.FindAll("//a[" + ContainsFold("text()", "login") + "]")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "LOGIN here", found[0].Text())
}

func TestXPathSelector(t *testing.T) {
	sel, err := xpathSelector(" //form ")
	require.NoError(t, err)
	assert.Equal(t, "xpath=//form", sel)

	_, err = xpathSelector("")
	assert.Error(t, err)
	_, err = xpathSelector("https://x.test")
	assert.Error(t, err)
}
