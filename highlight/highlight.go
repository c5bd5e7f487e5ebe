// Package highlight renders source code as HTML with token classes.
package highlight

import (
	"cmp"
	"context"
	"fmt"
	"html"
	"html/template"
	"slices"
	"strings"
	"sync"

	"github.com/dasdy/bankingai/errs"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Capture names double as CSS class suffixes: @keyword becomes tok-keyword.
const pythonQuery = `
(comment) @comment
(string) @string
(integer) @number
(float) @number
[(true) (false) (none)] @constant
(function_definition name: (identifier) @function)
(call function: (identifier) @function)
(call function: (attribute attribute: (identifier) @function))
[
  "def" "return" "import" "from" "as" "if" "elif" "else" "for" "in"
  "while" "and" "or" "not" "is" "with" "try" "except" "finally"
  "raise" "lambda" "pass" "class"
] @keyword
`

var compiledQuery = sync.OnceValues(func() (*sitter.Query, error) {
	return sitter.NewQuery([]byte(pythonQuery), python.GetLanguage())
})

type span struct {
	start, end uint32
	class      string
}

func parse(source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("could not parse python source: %w", err)
	}

	return tree, nil
}

// Valid reports whether source parses without syntax errors.
func Valid(source []byte) bool {
	tree, err := parse(source)
	if err != nil {
		return false
	}
	defer tree.Close()

	return !tree.RootNode().HasError()
}

// Python returns source as escaped HTML where keywords, strings,
// comments, numbers, constants and function names are wrapped in
// <span class="tok-...">.
func Python(source []byte) (template.HTML, error) {
	q, err := compiledQuery()
	if err != nil {
		return "", errs.Wrap(errs.CodeInternal, err, "could not compile highlight query")
	}

	tree, err := parse(source)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()

	qc.Exec(q, tree.RootNode())

	spans := make([]span, 0)

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}

		for _, c := range m.Captures {
			spans = append(spans, span{
				start: c.Node.StartByte(),
				end:   c.Node.EndByte(),
				class: q.CaptureNameForId(c.Index),
			})
		}
	}

	return render(source, spans), nil
}

// render writes source with spans applied. Spans are taken in start
// order, wider first; a span overlapping an already written one is
// dropped.
func render(source []byte, spans []span) template.HTML {
	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Or(cmp.Compare(a.start, b.start), -cmp.Compare(a.end, b.end))
	})

	var sb strings.Builder

	var pos uint32

	for _, s := range spans {
		if s.start < pos || s.end > uint32(len(source)) {
			continue
		}

		sb.WriteString(html.EscapeString(string(source[pos:s.start])))
		sb.WriteString(`<span class="tok-`)
		sb.WriteString(s.class)
		sb.WriteString(`">`)
		sb.WriteString(html.EscapeString(string(source[s.start:s.end])))
		sb.WriteString(`</span>`)

		pos = s.end
	}

	sb.WriteString(html.EscapeString(string(source[pos:])))

	//nolint:gosec
	return template.HTML(sb.String())
}
