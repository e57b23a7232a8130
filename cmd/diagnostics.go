package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/eykd/structgen-go/internal/validate"
)

// summarizeErrors renders "N errors (line 1, 3)" for a failed validation.
func summarizeErrors(res validate.Result) string {
	noun := "errors"
	if len(res.Errors) == 1 {
		noun = "error"
	}
	lines := res.ErrorLines()
	if len(lines) == 0 {
		return fmt.Sprintf("%d %s", len(res.Errors), noun)
	}
	nums := lo.Map(lines, func(n int, _ int) string { return fmt.Sprint(n) })
	return fmt.Sprintf("%d %s (line %s)", len(res.Errors), noun, strings.Join(nums, ", "))
}

// printValidationErrors writes one "CODE message" line per error.
func printValidationErrors(w io.Writer, errs []validate.ValidationError) {
	for _, e := range errs {
		fmt.Fprintf(w, "%s %s\n", e.Code, sanitizeText(e.Message()))
	}
}

// validationFailure prints the errors and the summary to w and returns the
// error that makes the command exit non-zero.
func validationFailure(w io.Writer, res validate.Result) error {
	printValidationErrors(w, res.Errors)
	summary := summarizeErrors(res)
	fmt.Fprintln(w, summary)
	return fmt.Errorf("structure has %s", summary)
}
