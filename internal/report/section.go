// File path: internal/report/section.go
package report

import "strings"

// FallbackTitle is used when a report carries no level-1 heading.
const FallbackTitle = "Unknown Report"

// Title returns the text of the first level-1 heading in content, or
// FallbackTitle when none exists.
func Title(content string) string {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		if isFenceDelimiter(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if headingLevel(line) == 1 {
			return strings.TrimSpace(line[2:])
		}
	}
	return FallbackTitle
}

type rawSection struct {
	heading string
	content string
}

// splitSections slices content into level-2 sections. Each section runs from
// its `## ` heading to the next level-1 or level-2 heading or end of input.
// Headings inside fenced code blocks do not open or close sections. The
// heading text is kept verbatim as the section key.
func splitSections(content string) []rawSection {
	lines := strings.Split(content, "\n")
	var sections []rawSection
	var current *rawSection
	var buf []string
	inFence := false

	flush := func() {
		if current == nil {
			buf = buf[:0]
			return
		}
		current.content = strings.TrimSpace(strings.Join(buf, "\n"))
		sections = append(sections, *current)
		current = nil
		buf = buf[:0]
	}

	for _, line := range lines {
		if isFenceDelimiter(line) {
			inFence = !inFence
			buf = append(buf, line)
			continue
		}
		if !inFence {
			switch headingLevel(line) {
			case 1:
				flush()
				continue
			case 2:
				flush()
				current = &rawSection{heading: strings.TrimSpace(line[3:])}
				continue
			}
		}
		buf = append(buf, line)
	}
	flush()
	return sections
}

// matchesSection reports whether a section heading refers to the logical
// section name, ignoring case and leading enumeration such as "1. ".
// Substring containment keeps the lookup tolerant of heading variation
// ("Kafka Usage Inventory" vs "Usage Inventory").
func matchesSection(heading, name string) bool {
	h := stripEnumeration(strings.ToLower(strings.TrimSpace(heading)))
	return strings.Contains(h, strings.ToLower(name))
}

// stripEnumeration removes a leading "<digits>. " or "<digits>) " prefix.
func stripEnumeration(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) {
		return s
	}
	if s[i] == '.' || s[i] == ')' {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
