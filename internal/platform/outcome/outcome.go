// Package outcome is the error envelope returned by the HTTP API. Each issue
// names the form field it concerns so a data-entry client can attach the
// message to the right input.
package outcome

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
)

const (
	SeverityError   = "error"
	SeverityFatal   = "fatal"
	SeverityWarning = "warning"
)

const (
	CodeInvalid      = "invalid"
	CodeRequired     = "required"
	CodeNotFound     = "not-found"
	CodeConflict     = "conflict"
	CodeBusinessRule = "business-rule"
	CodeException    = "exception"
	CodeForbidden    = "forbidden"
)

type Issue struct {
	Severity    string   `json:"severity"`
	Code        string   `json:"code"`
	Diagnostics string   `json:"diagnostics"`
	Expression  []string `json:"expression,omitempty"`
}

type Outcome struct {
	Issue []Issue `json:"issue"`
}

// HasErrors reports whether any issue is an error or fatal.
func (o *Outcome) HasErrors() bool {
	for _, i := range o.Issue {
		if i.Severity == SeverityError || i.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// Fields lists the field expressions carried by the issues, in order.
func (o *Outcome) Fields() []string {
	var out []string
	for _, i := range o.Issue {
		out = append(out, i.Expression...)
	}
	return out
}

type Builder struct {
	o Outcome
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Add(severity, code, diagnostics string) *Builder {
	b.o.Issue = append(b.o.Issue, Issue{Severity: severity, Code: code, Diagnostics: diagnostics})
	return b
}

// AddField adds an error issue located at field. An empty field produces a
// form-level issue.
func (b *Builder) AddField(code, field, diagnostics string) *Builder {
	issue := Issue{Severity: SeverityError, Code: code, Diagnostics: diagnostics}
	if field != "" {
		issue.Expression = []string{field}
	}
	b.o.Issue = append(b.o.Issue, issue)
	return b
}

func (b *Builder) Build() *Outcome {
	return &Outcome{Issue: append([]Issue(nil), b.o.Issue...)}
}

func Error(diagnostics string) *Outcome {
	return NewBuilder().Add(SeverityError, CodeInvalid, diagnostics).Build()
}

// BadRequest reports a request body that could not be bound. The message
// of an echo.HTTPError, which names the offending field or offset, is kept.
func BadRequest(err error) *Outcome {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Message != nil {
		return Error(fmt.Sprint(he.Message))
	}
	return Error("invalid request body")
}

func Internal(diagnostics string) *Outcome {
	return NewBuilder().Add(SeverityFatal, CodeException, diagnostics).Build()
}

func NotFound(kind, id string) *Outcome {
	return NewBuilder().Add(SeverityError, CodeNotFound, fmt.Sprintf("%s %s not found", kind, id)).Build()
}

func Conflict(diagnostics string) *Outcome {
	return NewBuilder().Add(SeverityError, CodeConflict, diagnostics).Build()
}
