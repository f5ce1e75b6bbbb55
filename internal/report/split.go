// File path: internal/report/split.go
package report

import "strings"

// fencedBlock is one fenced code region: the delimiter line indexes and the
// interior lines between them.
type fencedBlock struct {
	tag     string
	open    int
	close   int // index of the closing delimiter, len(lines) when unterminated
	content []string
}

// findFencedBlocks enumerates fenced regions in order. A second delimiter
// closes the most recently opened fence; an unterminated fence runs to the
// end of input.
func findFencedBlocks(lines []string) []fencedBlock {
	var blocks []fencedBlock
	open := -1
	tag := ""
	for i, line := range lines {
		if !isFenceDelimiter(line) {
			continue
		}
		if open < 0 {
			open = i
			tag = fenceTag(line)
			continue
		}
		blocks = append(blocks, fencedBlock{tag: tag, open: open, close: i, content: lines[open+1 : i]})
		open = -1
	}
	if open >= 0 {
		blocks = append(blocks, fencedBlock{tag: tag, open: open, close: len(lines), content: lines[open+1:]})
	}
	return blocks
}

// isDiffFence reports whether a fenced block holds a diff: either its tag
// says so or its content carries diff markers at the start of a line.
func isDiffFence(b fencedBlock) bool {
	if b.tag == "diff" || b.tag == "patch" {
		return true
	}
	for _, line := range b.content {
		if isDiffStart(line) {
			return true
		}
	}
	return false
}

// SplitDescriptionAndDiff separates the leading prose of a model response
// from its clean diff body. The response may fence the diff (possibly with
// explanatory prose inside the same fence before the real headers), leave it
// bare after unfenced prose, or contain no diff at all, in which case the
// whole input is description and the body is empty.
func SplitDescriptionAndDiff(raw string) (description, diffBody string) {
	lines := strings.Split(raw, "\n")

	for _, block := range findFencedBlocks(lines) {
		if !isDiffFence(block) {
			continue
		}
		start := len(block.content)
		for i, line := range block.content {
			if isDiffStart(line) {
				start = i
				break
			}
		}
		outside := strings.TrimSpace(strings.Join(lines[:block.open], "\n"))
		inside := strings.TrimSpace(strings.Join(block.content[:start], "\n"))
		diffBody = strings.TrimSpace(strings.Join(block.content[start:], "\n"))
		return joinDescription(outside, inside), diffBody
	}

	// No qualifying fence: fall back to a raw scan for the first diff marker.
	for i, line := range lines {
		if isDiffStart(line) {
			description = strings.TrimSpace(strings.Join(lines[:i], "\n"))
			diffBody = strings.TrimSpace(strings.Join(lines[i:], "\n"))
			return description, diffBody
		}
	}
	return strings.TrimSpace(raw), ""
}

func joinDescription(outside, inside string) string {
	switch {
	case outside == "":
		return inside
	case inside == "":
		return outside
	default:
		return outside + "\n" + inside
	}
}
