package feedsvc

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/JosiasAurel/scrapbook-v2/internal/store"
)

// celFilter wraps a compiled CEL program evaluated against each post before
// emission. When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("user_id", cel.StringType),
		cel.Variable("text", cel.StringType),
		cel.Variable("source", cel.StringType),
		cel.Variable("post_time", cel.IntType),
		cel.Variable("attachments", cel.ListType(cel.StringType)),
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval reports whether the post passes the filter. Evaluation errors count
// as a miss rather than failing the stream.
func (f celFilter) Eval(p store.Post) bool {
	if !f.enabled {
		return true
	}
	attachments := p.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"id":          p.ID,
		"user_id":     p.UserID,
		"text":        p.Text,
		"source":      p.Source,
		"post_time":   p.PostTime,
		"attachments": attachments,
		"now_ms":      time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
