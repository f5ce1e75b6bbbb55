// File path: internal/report/parser.go
package report

// Parse turns a markdown migration report into a typed Report. Parsing is
// total: any input yields a well-formed Report. A missing title falls back
// to FallbackTitle, a missing inventory section yields an empty list, and
// malformed rows or blocks are skipped rather than reported.
func Parse(content string) *Report {
	rep := &Report{
		Title:    Title(content),
		Sections: make(map[string]Section),
	}

	for _, raw := range splitSections(content) {
		switch {
		case matchesSection(raw.heading, "inventory"):
			records := ParseInventory(raw.content)
			rep.Sections[raw.heading] = Section{Kind: SectionTable, Content: raw.content, Inventory: records}
			if rep.Inventory == nil {
				rep.Inventory = records
			}
		case matchesSection(raw.heading, "diff"):
			records := ParseDiffBlocks(raw.content)
			rep.Sections[raw.heading] = Section{Kind: SectionDiffs, Content: raw.content, Diffs: records}
			if rep.Diffs == nil {
				rep.Diffs = records
			}
		default:
			rep.Sections[raw.heading] = Section{Kind: SectionText, Content: raw.content}
		}
	}
	return rep
}
