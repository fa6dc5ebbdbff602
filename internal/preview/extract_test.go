package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html><head><title> Sign in </title><style>body{color:red}</style></head>
<body>
  <header><h1>Acme</h1></header>
  <main>
    <form>
      <label>Email</label>
      <button>Continue</button>
    </form>
    <img src="x.png" alt="logo">
    <script>console.log("hidden")</script>
  </main>
</body></html>`

func TestExtract(t *testing.T) {
	out, err := Extract(page, 0)
	require.NoError(t, err)

	assert.Equal(t, "Sign in", out.Title)
	assert.Equal(t, "Acme\nEmail\nContinue\n[image: logo]", out.Text)
	assert.NotContains(t, out.Text, "hidden")
	assert.NotContains(t, out.Text, "color:red")
}

func TestExtract_Truncates(t *testing.T) {
	out, err := Extract("<p>one two three</p><p>four five</p>", 4)
	require.NoError(t, err)
	assert.Equal(t, "one two three\nfour...", out.Text)

	out, err = Extract("<p>one two</p>", 10)
	require.NoError(t, err)
	assert.Equal(t, "one two", out.Text)
}

func TestExtract_Fragment(t *testing.T) {
	// model output that is not a full document still previews
	out, err := Extract("```html\n<div>Hi</div>\n```", 0)
	require.NoError(t, err)
	assert.Equal(t, "", out.Title)
	assert.Contains(t, out.Text, "Hi")
}
