package schema

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
)

// Diagnostic is one problem found in a query document
type Diagnostic struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// ValidationError is returned when a query fails to parse or does not match the schema
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = d.String()
	}
	return "invalid query: " + strings.Join(parts, "; ")
}

// Validate checks the syntax of query and every field against the schema.
// It never resolves a field.
func (s *Schema) Validate(query string) error {
	if strings.TrimSpace(query) == "" {
		return &ValidationError{Diagnostics: []Diagnostic{{Message: "query is empty"}}}
	}

	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{Body: []byte(query), Name: "query"}),
	})
	if err != nil {
		return &ValidationError{Diagnostics: diagnostics([]gqlerrors.FormattedError{gqlerrors.FormatError(err)})}
	}

	result := graphql.ValidateDocument(&s.gql, doc, nil)
	if !result.IsValid {
		return &ValidationError{Diagnostics: diagnostics(result.Errors)}
	}
	return nil
}

func diagnostics(errs []gqlerrors.FormattedError) []Diagnostic {
	out := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		d := Diagnostic{Message: e.Message}
		if len(e.Locations) > 0 {
			d.Line = e.Locations[0].Line
			d.Column = e.Locations[0].Column
		}
		out = append(out, d)
	}
	return out
}
