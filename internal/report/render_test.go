// File path: internal/report/render_test.go
package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testReport() *Report {
	return &Report{
		Title: "Kafka → Azure Service Bus Migration Report",
		Inventory: []InventoryRecord{
			{File: "Api/ConsumerWrapper.cs", APIsUsed: "Confluent.Kafka, Consumer<string,string>", Summary: "Kafka consumer wrapper"},
			{File: "Api/ProducerWrapper.cs", APIsUsed: "Confluent.Kafka, Producer", Summary: "Kafka producer wrapper"},
		},
		Diffs: []DiffRecord{
			{
				File:        "Api/ConsumerWrapper.cs",
				Description: "Swap the consumer loop for a processor callback.",
				DiffBody:    "--- a/Api/ConsumerWrapper.cs\n+++ b/Api/ConsumerWrapper.cs\n@@ -1 +1 @@\n-using Confluent.Kafka;\n+using Azure.Messaging.ServiceBus;",
				KeyChanges:  []string{"Replaced consumer loop"},
				Notes:       []string{"processor handles completion"},
			},
			{File: "Api/ProducerWrapper.cs", Description: "No Kafka usage detected."},
			{File: "README.md", DiffBody: "--- a/README.md\n+++ b/README.md"},
		},
	}
}

func TestNewMeta(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	meta := NewMeta("https://example.com/repo.git", at)
	if meta.GeneratedAt != "1700000000123" {
		t.Fatalf("expected millisecond epoch string, got %q", meta.GeneratedAt)
	}
}

func TestAssembleScopes(t *testing.T) {
	rep := testReport()
	meta := NewMeta("https://example.com/repo.git", time.UnixMilli(1))

	perFile := BuildPipeline(rep, meta, ScopePerFile)
	if len(perFile.Diffs) != 2 {
		t.Fatalf("expected README excluded, got %d diffs", len(perFile.Diffs))
	}
	if diff := cmp.Diff([]string{"Replaced consumer loop"}, perFile.Diffs[0].KeyChanges); diff != "" {
		t.Fatalf("per-file key changes mismatch (-want +got):\n%s", diff)
	}
	if len(perFile.KeyChanges) != 0 {
		t.Fatalf("per-file scope must not pool key changes: %+v", perFile.KeyChanges)
	}

	global := BuildPipeline(rep, meta, ScopeGlobal)
	if diff := cmp.Diff([]string{"Replaced consumer loop"}, global.KeyChanges); diff != "" {
		t.Fatalf("global key changes mismatch (-want +got):\n%s", diff)
	}
	if len(global.Diffs[0].KeyChanges) != 0 {
		t.Fatalf("global scope must not attach per-diff key changes")
	}

	if got := perFile.Inventory[0].KafkaAPIs; len(got) != 2 || got[0] != "Confluent.Kafka" {
		t.Fatalf("unexpected api split: %+v", got)
	}
	if perFile.Stats.TotalFilesWithKafka != 2 || perFile.Stats.TotalFilesWithDiffs != 2 {
		t.Fatalf("unexpected stats: %+v", perFile.Stats)
	}
	if perFile.Stats.SectionsCount != nil {
		t.Fatalf("pipeline variant must omit sections_count")
	}
}

func TestSplitAPIsKeepsGenerics(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Confluent.Kafka, Consumer<string,string>", []string{"Confluent.Kafka", "Consumer<string,string>"}},
		{"ProducerBuilder<Null, Order>, ProduceAsync(", []string{"ProducerBuilder<Null, Order>", "ProduceAsync("}},
		{"Dictionary<string, List<int,bool>>, Producer", []string{"Dictionary<string, List<int,bool>>", "Producer"}},
		{"Consumer, , Producer", []string{"Consumer", "Producer"}},
		{"", nil},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, splitAPIs(tc.in)); diff != "" {
			t.Fatalf("splitAPIs(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestGlobalScopeDeduplicates(t *testing.T) {
	rep := &Report{Diffs: []DiffRecord{
		{File: "a.cs", KeyChanges: []string{"x", "y"}},
		{File: "b.cs", KeyChanges: []string{"y", "z"}},
	}}
	doc := BuildPipeline(rep, Meta{}, ScopeGlobal)
	if diff := cmp.Diff([]string{"x", "y", "z"}, doc.KeyChanges); diff != "" {
		t.Fatalf("expected first-seen dedupe (-want +got):\n%s", diff)
	}
}

func TestBuildDocumentIncludesSections(t *testing.T) {
	rep := Parse(sampleReport)
	doc := BuildDocument(rep, NewMeta("", time.UnixMilli(1)))
	if doc.Stats.SectionsCount == nil || *doc.Stats.SectionsCount != 3 {
		t.Fatalf("expected sections_count 3, got %+v", doc.Stats.SectionsCount)
	}
	if doc.Title != rep.Title {
		t.Fatalf("expected title carried over")
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected sections payload, got %d", len(doc.Sections))
	}
}

func TestRenderMarkdown(t *testing.T) {
	rep := testReport()
	doc := BuildPipeline(rep, NewMeta("https://example.com/repo.git", time.UnixMilli(1)), ScopeGlobal)
	md := RenderMarkdown(rep, doc)

	if !strings.HasPrefix(md, "<!--BEGIN:REPORT_JSON-->\n") {
		t.Fatalf("expected sentinel block first")
	}
	if !strings.Contains(md, "## 1. Kafka Usage Inventory") {
		t.Fatalf("missing inventory heading")
	}
	if !strings.Contains(md, "### Api/ProducerWrapper.cs\nNo Kafka usage detected.\n\n*No diff content generated*") {
		t.Fatalf("missing empty-diff placeholder:\n%s", md)
	}
	if strings.Contains(md, "### README.md") {
		t.Fatalf("README.md must never be rendered in the diffs section")
	}

	extracted, ok := ExtractEmbeddedJSON(md)
	if !ok {
		t.Fatalf("expected embedded JSON payload")
	}
	if extracted.Meta.RepoURL != "https://example.com/repo.git" {
		t.Fatalf("unexpected meta: %+v", extracted.Meta)
	}
	if len(extracted.Diffs) != 2 {
		t.Fatalf("unexpected embedded diffs: %d", len(extracted.Diffs))
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	rep := testReport()
	doc := BuildPipeline(rep, NewMeta("", time.UnixMilli(1)), ScopePerFile)
	md := RenderMarkdown(rep, doc)

	back := Parse(md)
	if diff := cmp.Diff(rep.Inventory, back.Inventory); diff != "" {
		t.Fatalf("inventory round trip mismatch (-want +got):\n%s", diff)
	}

	wantFiles := []string{"Api/ConsumerWrapper.cs", "Api/ProducerWrapper.cs"}
	var gotFiles []string
	for _, d := range back.Diffs {
		gotFiles = append(gotFiles, d.File)
	}
	if diff := cmp.Diff(wantFiles, gotFiles); diff != "" {
		t.Fatalf("diff file list mismatch (-want +got):\n%s", diff)
	}
	if got := strings.TrimSpace(back.Diffs[0].DiffBody); got != rep.Diffs[0].DiffBody {
		t.Fatalf("diff body round trip mismatch:\n%q\nvs\n%q", got, rep.Diffs[0].DiffBody)
	}
	if back.Title != rep.Title {
		t.Fatalf("title round trip mismatch: %q", back.Title)
	}
	if back.Diffs[1].Description != "No Kafka usage detected." {
		t.Fatalf("placeholder leaked into description: %q", back.Diffs[1].Description)
	}
}

func TestExtractEmbeddedJSONMissing(t *testing.T) {
	if _, ok := ExtractEmbeddedJSON("# no sentinels here"); ok {
		t.Fatalf("expected no payload")
	}
	if _, ok := ExtractEmbeddedJSON("<!--BEGIN:REPORT_JSON-->\nnot json\n<!--END:REPORT_JSON-->"); ok {
		t.Fatalf("expected decode failure to be reported")
	}
}
