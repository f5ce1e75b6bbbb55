// File path: internal/report/inventory.go
package report

import "strings"

// ParseInventory parses the pipe-delimited usage table inside a section.
// Rows before the first separator line are header and discarded; rows after
// it are data until the first non-blank, non-table line. Blank lines inside
// the table region are skipped. A data row must yield at least three columns
// (file, apis used, summary); extra columns are ignored and ragged rows are
// dropped without error.
func ParseInventory(content string) []InventoryRecord {
	var records []InventoryRecord
	inTable := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case ClassifyLine(trimmed) == LineTableSeparator:
			inTable = true
		case strings.HasPrefix(trimmed, "|"):
			if !inTable {
				continue
			}
			cols := splitTableRow(trimmed)
			if len(cols) < 3 {
				continue
			}
			records = append(records, InventoryRecord{
				File:     cols[0],
				APIsUsed: cols[1],
				Summary:  cols[2],
			})
		default:
			if inTable {
				return records
			}
		}
	}
	return records
}

// splitTableRow splits a `| a | b | c |` row into trimmed cells, dropping
// the empty leading and trailing segments produced by the outer pipes.
func splitTableRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) >= 2 {
		parts = parts[1 : len(parts)-1]
	}
	cols := make([]string, 0, len(parts))
	for _, part := range parts {
		cols = append(cols, strings.TrimSpace(part))
	}
	return cols
}
