// Package result renders review results for the TUI.
package result

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// Render formats a review result clause by clause. width bounds quote text.
func Render(s *styles.Styles, result domain.ReviewResult, width int) string {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if len(result) == 0 {
		return s.Muted.Render("The review returned no clauses.")
	}

	var b strings.Builder
	for _, clause := range result {
		b.WriteString(s.Subtitle.Render(fmt.Sprintf("%s (%d quote(s))", clause.ClauseName, len(clause.Quotes))))
		b.WriteString("\n")
		if len(clause.Quotes) == 0 {
			b.WriteString(s.Muted.Render("  no relevant passages found"))
			b.WriteString("\n")
		}
		for _, q := range clause.Quotes {
			b.WriteString(s.Muted.Render(fmt.Sprintf("  [%s / %s]", q.DocumentType, q.Header)))
			b.WriteString("\n")
			b.WriteString(s.Quote.Width(max(width-6, 20)).Render(q.Content))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
