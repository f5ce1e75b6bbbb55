// File path: internal/report/diffblock.go
package report

import "strings"

// ParseDiffBlocks locates the per-file blocks of a diffs section. Each block
// is introduced by a `### <file>` heading and runs to the next level-3
// heading. The block interior is split into description and clean diff body,
// then stripped of key-change and note annotations. A block with no
// recognizable diff syntax yields a record with an empty body, which is a
// valid "no changes" result.
func ParseDiffBlocks(content string) []DiffRecord {
	lines := strings.Split(content, "\n")

	type span struct {
		file       string
		start, end int
	}
	var spans []span
	inFence := false
	for i, line := range lines {
		if isFenceDelimiter(line) {
			inFence = !inFence
			continue
		}
		if inFence || headingLevel(line) != 3 {
			continue
		}
		if len(spans) > 0 {
			spans[len(spans)-1].end = i
		}
		spans = append(spans, span{file: strings.TrimSpace(line[4:]), start: i + 1, end: len(lines)})
	}

	var records []DiffRecord
	for _, sp := range spans {
		if sp.file == "" {
			continue
		}
		blob := strings.Join(lines[sp.start:sp.end], "\n")
		records = append(records, buildDiffRecord(sp.file, blob))
	}
	return records
}

// buildDiffRecord assembles one DiffRecord from a raw response blob:
// description/diff separation first, then annotation extraction over both
// halves. Description annotations come first in the collected lists, the way
// the model orders them.
func buildDiffRecord(file, blob string) DiffRecord {
	description, body := SplitDescriptionAndDiff(blob)
	descAnn := ExtractAnnotations(description)
	bodyAnn := ExtractAnnotations(body)

	return DiffRecord{
		File:        file,
		Description: strings.TrimSpace(stripPlaceholder(descAnn.Body)),
		DiffBody:    strings.TrimSpace(bodyAnn.Body),
		KeyChanges:  append(descAnn.KeyChanges, bodyAnn.KeyChanges...),
		Notes:       append(descAnn.Notes, bodyAnn.Notes...),
	}
}

// BuildDiffRecord exposes the single-response assembly path used when the
// model answers one file at a time rather than emitting a whole report.
func BuildDiffRecord(file, response string) DiffRecord {
	return buildDiffRecord(file, response)
}

// stripPlaceholder removes the renderer's empty-diff placeholder line so
// that re-parsing a rendered report does not grow descriptions.
func stripPlaceholder(text string) string {
	if !strings.Contains(text, noDiffPlaceholder) {
		return text
	}
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == noDiffPlaceholder {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
