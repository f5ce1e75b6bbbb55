// File path: internal/report/annotate.go
package report

import "strings"

// Annotations is the result of one extraction pass: the input with every
// consumed annotation line removed, plus the collected key changes and notes.
// Removal is pure filtering; surviving lines keep their relative order.
// Applying the extractor to its own Body yields the same Body and two empty
// lists.
type Annotations struct {
	Body       string
	KeyChanges []string
	Notes      []string
}

// ExtractAnnotations scans a diff body or description for "Key changes" and
// "Note" material. Two grammars are recognized: the marker grammar the model
// emits inside diff bodies ("+ Key changes:" followed by non-diff lines,
// inline "Note: ..." lines) and the heading grammar it emits in prose
// ("## Key Changes" / "## Notes" followed by a bullet list).
func ExtractAnnotations(text string) Annotations {
	lines := strings.Split(text, "\n")
	clean := make([]string, 0, len(lines))
	var keyChanges, notes []string

	i := 0
	for i < len(lines) {
		line := lines[i]
		switch {
		case isKeyChangesMarker(line):
			i = collectMarkerBlock(lines, i+1, &keyChanges)
		case isKeyChangesHeading(line):
			i = collectBullets(lines, i+1, &keyChanges)
		case isNotesHeading(line):
			i = collectBullets(lines, i+1, &notes)
		case isNoteMarker(line):
			if n := noteText(line); n != "" {
				notes = append(notes, n)
			}
			i++
		default:
			clean = append(clean, line)
			i++
		}
	}

	return Annotations{
		Body:       strings.Join(clean, "\n"),
		KeyChanges: keyChanges,
		Notes:      notes,
	}
}

// collectMarkerBlock consumes the lines following a "Key changes:" marker
// inside a diff body. Bullets, "+ "-prefixed entries, and plain lines are
// collected; collection stops at a note marker or at the first unambiguous
// diff line. Blank lines are consumed without producing entries.
func collectMarkerBlock(lines []string, i int, out *[]string) int {
	for i < len(lines) {
		line := lines[i]
		if isNoteMarker(line) || isUnambiguousDiffLine(line) {
			return i
		}
		if entry := stripAnnotationPrefix(line); entry != "" {
			*out = append(*out, entry)
		}
		i++
	}
	return i
}

// collectBullets consumes a contiguous bullet list after a heading. Blank
// lines inside and immediately after the list are consumed with it; the
// first non-bullet, non-blank line ends the list and is left in place.
func collectBullets(lines []string, i int, out *[]string) int {
	for i < len(lines) {
		j := i
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			j++
		}
		if j >= len(lines) {
			return j
		}
		entry, ok := bulletText(lines[j])
		if !ok {
			return j
		}
		*out = append(*out, entry)
		i = j + 1
	}
	return i
}

// isUnambiguousDiffLine reports whether line is diff syntax rather than
// annotation text: control lines, or an add/remove whose marker is not
// followed by a space (the "+ text" form stays ambiguous and is treated as
// annotation content).
func isUnambiguousDiffLine(line string) bool {
	switch ClassifyLine(line) {
	case LineDiffGit, LineIndex, LineDiffHeaderOld, LineDiffHeaderNew, LineHunk:
		return true
	}
	if len(line) > 0 && (line[0] == '+' || line[0] == '-') {
		return len(line) == 1 || line[1] != ' '
	}
	return false
}

func isKeyChangesHeading(line string) bool {
	return headingText(line) == "key changes" || headingText(line) == "key change"
}

func isNotesHeading(line string) bool {
	return headingText(line) == "notes" || headingText(line) == "note"
}

// headingText returns the lowercased heading text with any trailing colon
// removed, or "" when the line is not a heading.
func headingText(line string) string {
	level := headingLevel(line)
	if level == 0 {
		return ""
	}
	text := strings.ToLower(strings.TrimSpace(line[level+1:]))
	return strings.TrimSuffix(text, ":")
}

// stripAnnotationPrefix removes a leading diff "+" and/or list bullet from
// an annotation entry.
func stripAnnotationPrefix(line string) string {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, "+") {
		s = strings.TrimSpace(s[1:])
	}
	s = strings.TrimPrefix(s, "- ")
	s = strings.TrimPrefix(s, "* ")
	return strings.TrimSpace(s)
}

// noteText strips the note marker and any leading prefix from a single-line
// note.
func noteText(line string) string {
	s := stripAnnotationPrefix(line)
	low := strings.ToLower(s)
	switch {
	case strings.HasPrefix(low, "notes:"):
		s = s[len("notes:"):]
	case strings.HasPrefix(low, "note:"):
		s = s[len("note:"):]
	}
	return strings.TrimSpace(s)
}

func bulletText(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") {
		return strings.TrimSpace(s[2:]), true
	}
	return "", false
}
