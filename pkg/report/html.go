package report

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"digital.vasic.lessons/pkg/lesson"
)

// HTMLReporter generates standalone HTML reports from run
// results.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport creates an HTML report for a single run
// result.
func (r *HTMLReporter) GenerateReport(
	result *lesson.RunResult,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateMasterSummary creates an HTML summary of all run
// results.
func (r *HTMLReporter) GenerateMasterSummary(
	results []*lesson.RunResult,
) ([]byte, error) {
	var buf bytes.Buffer

	r.writeHeader(&buf, "Catalog Run Summary")
	fmt.Fprintf(&buf, "<h1>Catalog Run Summary</h1>\n")

	fmt.Fprintf(&buf, "<table>\n<tr>"+
		"<th>Lesson</th><th>Title</th>"+
		"<th>Status</th><th>Checks</th></tr>\n")
	for _, res := range results {
		fmt.Fprintf(&buf,
			"<tr class=%q><td>%s</td><td>%s</td>"+
				"<td>%s</td><td>%d/%d</td></tr>\n",
			res.Status,
			html.EscapeString(string(res.LessonID)),
			html.EscapeString(res.Title),
			html.EscapeString(res.Status),
			res.ChecksPassed(), len(res.Checks),
		)
	}
	fmt.Fprintf(&buf, "</table>\n")
	r.writeFooter(&buf)

	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(
	w io.Writer,
	result *lesson.RunResult,
) error {
	r.writeHeader(w, "Lesson Report: "+result.Title)

	fmt.Fprintf(
		w, "<h1>Lesson Report: %s</h1>\n",
		html.EscapeString(result.Title),
	)
	fmt.Fprintf(
		w, "<p><strong>Lesson ID:</strong> %s</p>\n",
		html.EscapeString(string(result.LessonID)),
	)
	fmt.Fprintf(
		w, "<p><strong>Status:</strong> %s</p>\n",
		html.EscapeString(result.Status),
	)
	if result.FailureReason != "" {
		fmt.Fprintf(
			w, "<p><strong>Reason:</strong> %s</p>\n",
			html.EscapeString(result.FailureReason),
		)
	}

	if len(result.Checks) > 0 {
		fmt.Fprintf(w, "<h2>Checks</h2>\n<ul>\n")
		for _, c := range result.Checks {
			tag := "PASS"
			if !c.Passed {
				tag = "FAIL"
			}
			fmt.Fprintf(
				w, "<li>[%s] %s</li>\n",
				tag, html.EscapeString(c.Description),
			)
		}
		fmt.Fprintf(w, "</ul>\n")
	}

	if len(result.Lines) > 0 {
		fmt.Fprintf(w, "<h2>Output</h2>\n<pre>\n")
		for _, line := range result.Lines {
			fmt.Fprintf(
				w, "%3d +%s | %s\n",
				line.Sequence, line.Offset,
				html.EscapeString(line.Text),
			)
		}
		fmt.Fprintf(w, "</pre>\n")
	}

	r.writeFooter(w)
	return nil
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n"+
		"<meta charset=\"utf-8\">\n<title>%s</title>\n"+
		"<style>\n"+
		"body { font-family: sans-serif; margin: 2em; }\n"+
		"table { border-collapse: collapse; }\n"+
		"td, th { border: 1px solid #ccc; padding: 4px 8px; }\n"+
		"tr.passed td { background: #e8f5e9; }\n"+
		"tr.failed td, tr.errored td { background: #ffebee; }\n"+
		"tr.timed_out td { background: #fff3e0; }\n"+
		"pre { background: #f5f5f5; padding: 1em; }\n"+
		"</style>\n</head>\n<body>\n",
		html.EscapeString(title),
	)
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintf(w, "</body>\n</html>\n")
}
