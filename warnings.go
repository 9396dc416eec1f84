package tabmark

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal issue encountered while converting a document.
// Conversion still succeeded, but part of the output may be degraded.
type Warning struct {
	// Page is the 1-based page the warning applies to, or 0 when it
	// concerns the whole document.
	Page int

	// Message describes the issue.
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings renders warnings one per line, suitable for logging.
//
// Example:
//
//	md, warnings, err := tabmark.Open("report.pdf").Markdown(ctx)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tabmark.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
