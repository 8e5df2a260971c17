// Package observability renders interview progress for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-coach/internal/types"
)

// boxWidth is the outer width of a printed box.
const boxWidth = 64

// maxItemsToShow bounds list sections such as resume skills.
const maxItemsToShow = 8

// Printer writes boxed summaries to out.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints title and content framed in a box. Long lines wrap at word
// boundaries.
//
//nolint:errcheck // terminal output; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", inner, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s%s │\n", wrapped, strings.Repeat(" ", inner-len([]rune(wrapped))))
		}
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQuestion shows the question a session is waiting on.
func (p *Printer) PrintQuestion(index, total int, q types.Question) {
	title := fmt.Sprintf("QUESTION %d OF %d", index+1, total)
	if q.Category != "" {
		title += " · " + strings.ToUpper(q.Category)
	}
	p.printBox(title, q.Text)
}

// PrintEvaluation shows the score, feedback and improvements for an answer.
func (p *Printer) PrintEvaluation(result types.EvaluationResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Score: %d/100\n\n%s", result.Score, result.Feedback)
	if len(result.Improvements) > 0 {
		sb.WriteString("\n\nImprovements:")
		for _, imp := range result.Improvements {
			fmt.Fprintf(&sb, "\n  • %s", imp)
		}
	}
	p.printBox("EVALUATION", sb.String())
}

// PrintSession shows the per-question scores and average of a session.
func (p *Printer) PrintSession(session *types.Session) {
	if session == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s · %s", session.Type, session.Difficulty)
	if session.JobRole != "" {
		fmt.Fprintf(&sb, " · %s", session.JobRole)
	}
	sb.WriteString("\n\n")
	for i, resp := range session.Responses {
		status := fmt.Sprintf("%3d", resp.Evaluation.Score)
		if resp.ResponseText == types.SkipSentinel {
			status = "  -"
		}
		fmt.Fprintf(&sb, "Q%d  %s\n", i+1, status)
	}
	fmt.Fprintf(&sb, "\nAverage score: %.1f", session.AverageScore())

	title := "SESSION SUMMARY"
	if !session.Completed() {
		title += " (IN PROGRESS)"
	}
	p.printBox(title, sb.String())
}

// PrintResume shows what was extracted from a resume.
func (p *Printer) PrintResume(parsed *types.ParsedResume) {
	if parsed == nil {
		return
	}

	var sb strings.Builder
	writeList(&sb, "Skills", parsed.Skills)
	writeList(&sb, "Experience", parsed.Experience)
	writeList(&sb, "Education", parsed.Education)
	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, label string, items []string) {
	fmt.Fprintf(sb, "%s:\n", label)
	if len(items) == 0 {
		sb.WriteString("  (none found)\n\n")
		return
	}
	count := min(len(items), maxItemsToShow)
	for _, item := range items[:count] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
	sb.WriteString("\n")
}

// wrap splits line into pieces of at most width runes, breaking at spaces
// where possible.
func wrap(line string, width int) []string {
	runes := []rune(line)
	if len(runes) <= width {
		return []string{line}
	}

	var out []string
	for len(runes) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, strings.TrimRight(string(runes[:cut]), " "))
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
