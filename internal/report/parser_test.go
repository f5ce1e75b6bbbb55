// File path: internal/report/parser_test.go
package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleReport = `# Kafka → Azure Service Bus Migration Report

## 1. Kafka Usage Inventory

| File | APIs Used | Summary |
|------|-----------|---------|
| Api/ConsumerWrapper.cs | Confluent.Kafka, Consumer<string,string> | Kafka consumer wrapper |
| Api/ProducerWrapper.cs | Confluent.Kafka, Producer | Kafka producer wrapper |

## 2. Code Migration Diffs

### Api/ConsumerWrapper.cs
Swap the consumer loop for a ServiceBusProcessor callback.

` + "```diff" + `
--- a/Api/ConsumerWrapper.cs
+++ b/Api/ConsumerWrapper.cs
@@ -1,3 +1,3 @@
-using Confluent.Kafka;
+using Azure.Messaging.ServiceBus;
+ Key changes:
+ Replaced consumer loop
+ Note: processor handles completion
` + "```" + `

### Api/ProducerWrapper.cs
No Kafka usage detected in this file.

## 3. Next Steps

Review connection string management.
`

func TestParseReport(t *testing.T) {
	rep := Parse(sampleReport)

	if rep.Title != "Kafka → Azure Service Bus Migration Report" {
		t.Fatalf("unexpected title: %q", rep.Title)
	}
	if len(rep.Inventory) != 2 {
		t.Fatalf("expected 2 inventory records, got %d", len(rep.Inventory))
	}
	if rep.Inventory[0].File != "Api/ConsumerWrapper.cs" {
		t.Fatalf("unexpected first inventory file: %q", rep.Inventory[0].File)
	}
	if len(rep.Diffs) != 2 {
		t.Fatalf("expected 2 diff records, got %d", len(rep.Diffs))
	}

	first := rep.Diffs[0]
	if first.Description != "Swap the consumer loop for a ServiceBusProcessor callback." {
		t.Fatalf("unexpected description: %q", first.Description)
	}
	if ClassifyLine(firstLine(first.DiffBody)) != LineDiffHeaderOld {
		t.Fatalf("expected clean diff body, got %q", first.DiffBody)
	}
	if diff := cmp.Diff([]string{"Replaced consumer loop"}, first.KeyChanges); diff != "" {
		t.Fatalf("key changes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"processor handles completion"}, first.Notes); diff != "" {
		t.Fatalf("notes mismatch (-want +got):\n%s", diff)
	}

	second := rep.Diffs[1]
	if second.DiffBody != "" {
		t.Fatalf("expected empty diff body for no-change file, got %q", second.DiffBody)
	}
	if second.Description != "No Kafka usage detected in this file." {
		t.Fatalf("unexpected description: %q", second.Description)
	}

	if len(rep.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(rep.Sections))
	}
	if sec, ok := rep.Sections["3. Next Steps"]; !ok || sec.Kind != SectionText {
		t.Fatalf("expected text section for next steps, got %+v", sec)
	}
	if sec := rep.Sections["1. Kafka Usage Inventory"]; sec.Kind != SectionTable || len(sec.Inventory) != 2 {
		t.Fatalf("expected table section with parsed records, got %+v", sec)
	}
}

func TestParseIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"random prose with no structure",
		"## Inventory\n| broken | row\n|---|\n",
		"### orphan heading\n```diff\nunterminated fence",
	}
	for _, input := range inputs {
		rep := Parse(input)
		if rep == nil {
			t.Fatalf("Parse returned nil for %q", input)
		}
		if rep.Title == "" {
			t.Fatalf("expected fallback title for %q", input)
		}
	}
}

func TestParseMissingSections(t *testing.T) {
	rep := Parse("# Title Only\n\nSome prose.")
	if len(rep.Inventory) != 0 {
		t.Fatalf("expected empty inventory, got %+v", rep.Inventory)
	}
	if len(rep.Diffs) != 0 {
		t.Fatalf("expected no diffs, got %+v", rep.Diffs)
	}
}
