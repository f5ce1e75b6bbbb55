// File path: internal/report/line.go
package report

import "strings"

// LineKind classifies a single line of report text without surrounding
// context. Fence open/close pairing is stateful and left to callers; both
// delimiters classify as LineFence. The added/removed/context sub-tagging of
// prose inside a diff region is likewise contextual and handled by the
// consumers that track diff state.
type LineKind int

const (
	LineProse LineKind = iota
	LineBlank
	LineDiffGit
	LineIndex
	LineDiffHeaderOld
	LineDiffHeaderNew
	LineHunk
	LineFence
	LineKeyChanges
	LineNote
	LineTableSeparator
	LineTableRow
	LineHeading
)

// ClassifyLine assigns a kind to one line. Priority order matters: diff
// headers are tested before markdown constructs so that `--- a/file` is never
// mistaken for a horizontal rule, and the non-marker lookahead keeps a bare
// `---` rule from reading as a diff header.
func ClassifyLine(line string) LineKind {
	switch {
	case strings.HasPrefix(line, "diff --git "):
		return LineDiffGit
	case strings.HasPrefix(line, "index "):
		return LineIndex
	case isDiffHeader(line, "--- ", '-'):
		return LineDiffHeaderOld
	case isDiffHeader(line, "+++ ", '+'):
		return LineDiffHeaderNew
	case strings.HasPrefix(line, "@@ "):
		return LineHunk
	case isFenceDelimiter(line):
		return LineFence
	case isKeyChangesMarker(line):
		return LineKeyChanges
	case isNoteMarker(line):
		return LineNote
	case isTableSeparator(line):
		return LineTableSeparator
	case strings.HasPrefix(strings.TrimSpace(line), "|"):
		return LineTableRow
	case headingLevel(line) > 0:
		return LineHeading
	case strings.TrimSpace(line) == "":
		return LineBlank
	default:
		return LineProse
	}
}

// isDiffHeader reports whether line opens a unified-diff file header: the
// prefix followed by at least one character that is not the marker rune.
func isDiffHeader(line, prefix string, marker byte) bool {
	if !strings.HasPrefix(line, prefix) {
		return false
	}
	rest := line[len(prefix):]
	return rest != "" && rest[0] != marker
}

func isFenceDelimiter(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "```") {
		return false
	}
	tag := strings.TrimLeft(trimmed, "`")
	return !strings.Contains(tag, "`")
}

// fenceTag returns the language tag of a fence delimiter line, lowercased.
func fenceTag(line string) string {
	trimmed := strings.TrimSpace(line)
	return strings.ToLower(strings.TrimSpace(strings.TrimLeft(trimmed, "`")))
}

func isKeyChangesMarker(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	return s == "key changes:" || strings.HasPrefix(s, "+ key changes:")
}

func isNoteMarker(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	if strings.HasPrefix(s, "+ ") {
		s = strings.TrimSpace(s[2:])
	} else {
		s = strings.TrimPrefix(s, "- ")
		s = strings.TrimPrefix(s, "* ")
	}
	return strings.HasPrefix(s, "note:") || strings.HasPrefix(s, "notes:")
}

// isTableSeparator matches the row of dashes under a markdown table header,
// e.g. `|------|-----------|---------|`.
func isTableSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") || !strings.Contains(trimmed, "-") {
		return false
	}
	for _, r := range trimmed {
		switch r {
		case '|', '-', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// headingLevel returns the markdown heading level of line, or 0 when the
// line is not a heading.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level >= len(line) || line[level] != ' ' {
		return 0
	}
	return level
}

// isDiffStart reports whether line can begin a clean diff body: a git
// header, an index line, a file header, or a hunk marker.
func isDiffStart(line string) bool {
	switch ClassifyLine(line) {
	case LineDiffGit, LineIndex, LineDiffHeaderOld, LineDiffHeaderNew, LineHunk:
		return true
	}
	return false
}
