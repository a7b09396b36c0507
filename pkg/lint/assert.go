package lint

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// AssertionError is returned by AssertValidConfig for an invalid config.
type AssertionError struct {
	Result *Result
}

func (e *AssertionError) Error() string {
	return "invalid config:\n" + FormatResult(e.Result)
}

// Unwrap exposes one error per issue, errors first.
func (e *AssertionError) Unwrap() []error {
	return multierr.Errors(e.combined())
}

func (e *AssertionError) combined() error {
	var err error
	for _, issue := range e.Result.Errors {
		err = multierr.Append(err, issueError(issue))
	}
	for _, issue := range e.Result.Warnings {
		err = multierr.Append(err, issueError(issue))
	}
	return err
}

func issueError(issue Issue) error {
	if issue.Path == "" {
		return errors.New(issue.Message)
	}
	return fmt.Errorf("%s: %s", issue.Path, issue.Message)
}

// AssertValidConfig validates config and returns an *AssertionError when it
// is not valid under opts.
func AssertValidConfig(config map[string]any, opts *Options) error {
	result := ValidateConfig(config, opts)
	if result.Valid {
		return nil
	}
	return &AssertionError{Result: result}
}

// FormatResult renders issues one per line, errors before warnings:
//
//	✗ columns[0].key: column key is required
//	⚠ columns[1].header: column header is missing
//	  → the key will be displayed as the header
func FormatResult(r *Result) string {
	var b strings.Builder
	write := func(mark string, issue Issue) {
		b.WriteString(mark)
		b.WriteByte(' ')
		if issue.Path != "" {
			b.WriteString(issue.Path)
			b.WriteString(": ")
		}
		b.WriteString(issue.Message)
		b.WriteByte('\n')
		if issue.Suggestion != "" {
			b.WriteString("  → ")
			b.WriteString(issue.Suggestion)
			b.WriteByte('\n')
		}
	}
	for _, issue := range r.Errors {
		write("✗", issue)
	}
	for _, issue := range r.Warnings {
		write("⚠", issue)
	}
	return b.String()
}
