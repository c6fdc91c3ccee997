package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/freesearch-mcp/utils/platformerrors"
)

// resultsPage wraps article markup the way the aggregator's simple theme does.
func resultsPage(articles string) []byte {
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html><head><title>results</title></head>
<body>
<main id="main_results">
<div id="urls" role="main">
%s
</div>
</main>
</body></html>`, articles))
}

func TestDetectDocumentResults(t *testing.T) {
	raw := resultsPage(`
<article class="result result-default"><h3><a href="https://a.example/">A</a></h3></article>
<article class="result result-default"><h3><a href="https://b.example/">B</a></h3></article>
<article class="sidebar">not a result</article>`)

	rs, err := Detect(raw)
	require.NoError(t, err)
	assert.Equal(t, ShapeDocument, rs.Shape)
	require.Len(t, rs.Nodes, 2)
	assert.Equal(t, "A", rs.Nodes[0].Child("h3 a").Text())
	assert.Equal(t, "B", rs.Nodes[1].Child("h3 a").Text())
}

func TestDetectDocumentEmpty(t *testing.T) {
	cases := map[string][]byte{
		"no results marker": []byte(`<html><body>
<div class="dialog-error-block" role="alert"><p>Sorry!</p></div>
<div id="urls"><article class="result"><h3><a href="https://x.example">x</a></h3></article></div>
</body></html>`),
		"missing container":  []byte(`<html><body><div id="sidebar"><p>nothing</p></div></body></html>`),
		"empty container":    resultsPage(""),
		"not markup at all":  []byte("<<<< this is %%% not a page"),
		"empty body":         {},
		"unrelated articles": resultsPage(`<article class="ad">buy</article>`),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			rs, err := Detect(raw)
			require.NoError(t, err)
			assert.True(t, rs.Empty())
			assert.Equal(t, ShapeDocument, rs.Shape)
		})
	}
}

func TestDetectStructuredResults(t *testing.T) {
	raw := []byte(`  {"query":"go","results":[{"title":"Go","url":"https://go.dev"},42,{"title":"Tour"}],"number_of_results":2}`)

	rs, err := Detect(raw)
	require.NoError(t, err)
	assert.Equal(t, ShapeStructured, rs.Shape)
	require.Len(t, rs.Nodes, 2)
	assert.Equal(t, "Go", rs.Nodes[0].Attr("title"))
	assert.Equal(t, "Tour", rs.Nodes[1].Attr("title"))
}

func TestDetectStructuredEmpty(t *testing.T) {
	for name, raw := range map[string]string{
		"empty list":     `{"results":[]}`,
		"missing field":  `{"query":"go","answers":[]}`,
		"null results":   `{"results":null}`,
		"top-level list": `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			rs, err := Detect([]byte(raw))
			require.NoError(t, err)
			assert.True(t, rs.Empty())
			assert.Equal(t, ShapeStructured, rs.Shape)
		})
	}
}

func TestDetectStructuredDecodeFailure(t *testing.T) {
	for name, raw := range map[string]string{
		"truncated":        `{"results":[{"title":"Go"`,
		"results not list": `{"results":"nope"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Detect([]byte(raw))
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeDecodeFailure))
		})
	}
}

func TestStructuredNodeAccess(t *testing.T) {
	rs, err := Detect([]byte(`{"results":[{"title":"  Multi\n line ","n":3.5,"ok":true,"tags":["a","b"],"one":"solo","obj":{"z":"1","a":"2"},"nil":null}]}`))
	require.NoError(t, err)
	require.Len(t, rs.Nodes, 1)
	n := rs.Nodes[0]

	assert.Equal(t, "Multi line", n.Attr("title"))
	assert.Equal(t, "3.5", n.Attr("n"))
	assert.Equal(t, "true", n.Attr("ok"))
	assert.Equal(t, []string{"a", "b"}, texts(n, "tags"))
	assert.Equal(t, []string{"solo"}, texts(n, "one"))
	assert.Equal(t, []string{"z", "a"}, n.Child("obj").Fields())
	assert.False(t, n.Child("nil").Exists())
	assert.False(t, n.Child("missing").Child("deeper").Exists())
	assert.Empty(t, n.NextText())
}

func TestDetectAsStructuredRequiresJSON(t *testing.T) {
	for name, raw := range map[string]string{
		"plain text": "Too Many Requests",
		"markup":     "<html><body>Access denied</body></html>",
		"empty":      "",
		"whitespace": "  \n ",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DetectAs([]byte(raw), ShapeStructured)
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeDecodeFailure))
		})
	}
}

func TestDetectAsDocumentNeverFails(t *testing.T) {
	rs, err := DetectAs([]byte(`{"results":[{"title":"Go"}]}`), ShapeDocument)
	require.NoError(t, err)
	assert.Equal(t, ShapeDocument, rs.Shape)
	assert.True(t, rs.Empty())
}

func TestDetectSkipsByteOrderMark(t *testing.T) {
	raw := []byte("\xef\xbb\xbf" + `{"results":[{"title":"Go","url":"https://go.dev"}]}`)

	for name, detect := range map[string]func([]byte) (*ResultSet, error){
		"sniffed":  Detect,
		"declared": func(b []byte) (*ResultSet, error) { return DetectAs(b, ShapeStructured) },
	} {
		t.Run(name, func(t *testing.T) {
			rs, err := detect(raw)
			require.NoError(t, err)
			assert.Equal(t, ShapeStructured, rs.Shape)
			require.Len(t, rs.Nodes, 1)
			assert.Equal(t, "https://go.dev", rs.Nodes[0].Attr("url"))
		})
	}
}
