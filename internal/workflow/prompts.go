// File path: internal/workflow/prompts.go
package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ametcalf/busshift/internal/repo"
	"github.com/ametcalf/busshift/internal/report"
)

func inventoryPrompt(chunk repo.Chunk) string {
	return fmt.Sprintf(`You are analyzing a .NET Core repository. Does this code use Kafka (e.g., Confluent.Kafka, Kafka APIs, producers, consumers, topics, partitions)? If yes, return a JSON object with fields: {"file": "relative/path", "kafka_apis": [...], "summary": "..."}. If not, return {}.

Code chunk:
%s`, chunk.Prompt())
}

func diffPrompt(file, content string) string {
	return fmt.Sprintf(`You are a .NET Core expert.
File: %s

Original code:
%s

Task:
- Show a unified diff patch (diff style) that replaces Kafka usage with Azure.Messaging.ServiceBus.
- Cover producers, consumers, config, and error handling.
- Keep namespaces, classes, and non-Kafka code intact.
- If no Kafka usage is present, return an empty diff.`, file, content)
}

// decodeInventory recovers the JSON object embedded in a model answer. A
// missing or malformed object, or one without a file, drops this single
// record; it never fails the run.
func decodeInventory(answer string) (report.InventoryRecord, bool) {
	obj, ok := firstJSONObject(answer)
	if !ok {
		return report.InventoryRecord{}, false
	}
	var payload struct {
		File      string   `json:"file"`
		KafkaAPIs []string `json:"kafka_apis"`
		Summary   string   `json:"summary"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return report.InventoryRecord{}, false
	}
	if strings.TrimSpace(payload.File) == "" {
		return report.InventoryRecord{}, false
	}
	return report.InventoryRecord{
		File:     strings.TrimSpace(payload.File),
		APIsUsed: strings.Join(payload.KafkaAPIs, ", "),
		Summary:  payload.Summary,
	}, true
}

// firstJSONObject returns the first balanced top-level {...} region of text,
// respecting string literals and escapes.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
