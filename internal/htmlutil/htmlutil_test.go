package htmlutil

import (
	"strings"
	"testing"
)

func TestVisibleText(t *testing.T) {
	html := `<html><head><title>Ignored</title><style>p { color: red }</style></head>
<body>
  <h1>Budget   hearing</h1>
  <script>var x = 1;</script>
  <p>The committee
  approved the bill.</p>
</body></html>`

	doc, err := LoadHTML(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	got := VisibleText(doc)
	want := "Budget hearing The committee approved the bill."
	if got != want {
		t.Errorf("VisibleText = %q, want %q", got, want)
	}
}

func TestExtractTextFragment(t *testing.T) {
	got, err := ExtractText(strings.NewReader("<p>plain <b>fragment</b></p>"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "plain fragment" {
		t.Errorf("ExtractText = %q, want %q", got, "plain fragment")
	}
}
