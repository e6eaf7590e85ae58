// Package lint provides abstractions on top of go/analysis for checks
// with documentation and per-package configuration.
package lint

import (
	"fmt"
	"strings"

	"honnef.co/go/stamps/analysis/report"
	"honnef.co/go/stamps/config"

	"golang.org/x/tools/go/analysis"
)

// Analyzer wraps a go/analysis.Analyzer and provides structured
// documentation.
type Analyzer struct {
	// The analyzer's documentation. Unlike go/analysis.Analyzer.Doc,
	// this field is structured, providing access to severity, options
	// and so on.
	Doc      *RawDocumentation
	Analyzer *analysis.Analyzer
}

// InitializeAnalyzer fills in the analyzer's Doc and makes it respect
// the enabled and disabled checks of the package's configuration. The
// analyzer may use package report.
func InitializeAnalyzer(a *Analyzer) *Analyzer {
	a.Analyzer.Doc = a.Doc.Compile().String()
	a.Analyzer.Requires = append(a.Analyzer.Requires, config.Analyzer)
	a.Analyzer.Requires = append(a.Analyzer.Requires, report.RequiredAnalyzers...)
	run := a.Analyzer.Run
	a.Analyzer.Run = func(pass *analysis.Pass) (interface{}, error) {
		if !config.For(pass).Checks.IsEnabled(pass.Analyzer.Name) {
			return nil, nil
		}
		return run(pass)
	}
	return a
}

type Severity uint8

const (
	SeverityNone Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "none"
	}
}

// RawDocumentation is the documentation as written in a check's source.
// Text, Before and After may start with a newline and are trimmed.
type RawDocumentation struct {
	Title      string
	Text       string
	Before     string
	After      string
	Since      string
	NonDefault bool
	Severity   Severity
}

// Documentation is the cleaned up form of RawDocumentation.
type Documentation struct {
	Title      string
	Text       string
	Before     string
	After      string
	Since      string
	NonDefault bool
	Severity   Severity
}

func (doc RawDocumentation) Compile() *Documentation {
	return &Documentation{
		Title:      strings.TrimSpace(doc.Title),
		Text:       strings.TrimSpace(doc.Text),
		Before:     strings.TrimSpace(doc.Before),
		After:      strings.TrimSpace(doc.After),
		Since:      doc.Since,
		NonDefault: doc.NonDefault,
		Severity:   doc.Severity,
	}
}

func (doc *Documentation) String() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s\n\n", doc.Title)
	if doc.Text != "" {
		fmt.Fprintf(b, "%s\n\n", doc.Text)
	}
	if doc.Before != "" {
		fmt.Fprintln(b, "Before:")
		fmt.Fprintln(b, "")
		for _, line := range strings.Split(doc.Before, "\n") {
			fmt.Fprint(b, "    ", line, "\n")
		}
		fmt.Fprintln(b, "")
		fmt.Fprintln(b, "After:")
		fmt.Fprintln(b, "")
		for _, line := range strings.Split(doc.After, "\n") {
			fmt.Fprint(b, "    ", line, "\n")
		}
		fmt.Fprintln(b, "")
	}
	fmt.Fprint(b, "Available since\n    ")
	if doc.Since == "" {
		fmt.Fprint(b, "unreleased")
	} else {
		fmt.Fprintf(b, "%s", doc.Since)
	}
	if doc.NonDefault {
		fmt.Fprint(b, ", non-default")
	}
	fmt.Fprint(b, "\n")
	return b.String()
}
