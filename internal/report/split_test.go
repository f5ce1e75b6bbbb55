// File path: internal/report/split_test.go
package report

import "testing"

func TestSplitDescriptionAndDiffFencedWithInnerProse(t *testing.T) {
	raw := "Here is the fix:\n```diff\nSome explanation\n--- a/f\n+++ b/f\n@@ -1 +1 @@\n-old\n+new\n```"
	desc, body := SplitDescriptionAndDiff(raw)
	if desc != "Here is the fix:\nSome explanation" {
		t.Fatalf("unexpected description: %q", desc)
	}
	if body != "--- a/f\n+++ b/f\n@@ -1 +1 @@\n-old\n+new" {
		t.Fatalf("unexpected diff body: %q", body)
	}
}

func TestSplitDescriptionAndDiffUntaggedFence(t *testing.T) {
	raw := "Replace the producer.\n```\ndiff --git a/p.cs b/p.cs\nindex 1..2 100644\n--- a/p.cs\n+++ b/p.cs\n```"
	desc, body := SplitDescriptionAndDiff(raw)
	if desc != "Replace the producer." {
		t.Fatalf("unexpected description: %q", desc)
	}
	if body == "" || ClassifyLine(firstLine(body)) != LineDiffGit {
		t.Fatalf("expected body starting at diff --git, got %q", body)
	}
}

func TestSplitDescriptionAndDiffBareDiff(t *testing.T) {
	raw := "The change is minimal.\n\n--- a/c.cs\n+++ b/c.cs\n@@ -3 +3 @@\n-var c = new Consumer();\n+var p = new ServiceBusProcessor();"
	desc, body := SplitDescriptionAndDiff(raw)
	if desc != "The change is minimal." {
		t.Fatalf("unexpected description: %q", desc)
	}
	if ClassifyLine(firstLine(body)) != LineDiffHeaderOld {
		t.Fatalf("expected body starting at file header, got %q", body)
	}
}

func TestSplitDescriptionAndDiffNoDiff(t *testing.T) {
	raw := "This file does not use Kafka.\n\nNo changes are required."
	desc, body := SplitDescriptionAndDiff(raw)
	if body != "" {
		t.Fatalf("expected empty body, got %q", body)
	}
	if desc != raw {
		t.Fatalf("expected whole input as description, got %q", desc)
	}
}

func TestSplitDescriptionAndDiffHorizontalRuleNotDiff(t *testing.T) {
	raw := "Intro\n\n---\n\nMore prose after a rule."
	desc, body := SplitDescriptionAndDiff(raw)
	if body != "" {
		t.Fatalf("horizontal rule misread as diff header: %q", body)
	}
	if desc == "" {
		t.Fatalf("expected description")
	}
}

func TestSplitDescriptionAndDiffSkipsNonDiffFence(t *testing.T) {
	raw := "Config first:\n```json\n{\"kafka\": true}\n```\nThen the patch:\n```diff\n--- a/x\n+++ b/x\n```"
	desc, body := SplitDescriptionAndDiff(raw)
	if ClassifyLine(firstLine(body)) != LineDiffHeaderOld {
		t.Fatalf("expected diff fence chosen, got body %q", body)
	}
	if desc == "" {
		t.Fatalf("expected description")
	}
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
