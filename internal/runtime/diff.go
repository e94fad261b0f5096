package runtime

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines kept around each change.
const diffContext = 2

// LineDiff renders a line-oriented diff between the current and generated
// changelog. It returns "" when both are equal.
func LineDiff(name, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s (generated)\n", name, name)

	for i, d := range diffs {
		text := splitDiffLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			writeLines(&sb, "+", text)
		case diffmatchpatch.DiffDelete:
			writeLines(&sb, "-", text)
		case diffmatchpatch.DiffEqual:
			head, tail := diffContext, diffContext
			if i == 0 {
				head = 0
			}
			if i == len(diffs)-1 {
				tail = 0
			}
			if len(text) <= head+tail {
				writeLines(&sb, " ", text)
				continue
			}
			writeLines(&sb, " ", text[:head])
			fmt.Fprintf(&sb, "@@ %d unchanged lines @@\n", len(text)-head-tail)
			writeLines(&sb, " ", text[len(text)-tail:])
		}
	}
	return sb.String()
}

func splitDiffLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func writeLines(sb *strings.Builder, mark string, lines []string) {
	for _, l := range lines {
		sb.WriteString(mark)
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
}
