// File path: internal/scan/scan.go
package scan

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ametcalf/busshift/internal/common"
	"github.com/ametcalf/busshift/internal/report"
)

// kafkaKeywords are the API surface markers of Confluent.Kafka usage in C#
// sources.
var kafkaKeywords = []string{
	"Confluent.Kafka",
	"ProducerBuilder",
	"ConsumerBuilder",
	"Consume(",
	"Subscribe(",
	"ProduceAsync(",
	"bootstrap.servers",
	"IKafkaProducer",
	"IKafkaConsumer",
}

// configKeySubstrings mark Kafka-related configuration keys inside
// appsettings files.
var configKeySubstrings = []string{
	"kafka", "bootstrapservers", "groupid", "enableautocommit",
	"autooffsetreset", "sasl", "kerberos", "partitioneof",
}

// Scan performs the static keyword fallback: no model access, just keyword
// matching over source files, project files, and configuration. It shares no
// logic with the
// report engine; its output simply feeds the same inventory shape.
func Scan(root string) ([]report.InventoryRecord, error) {
	logger := common.Logger()
	var records []report.InventoryRecord

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.ToLower(d.Name())
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		switch {
		case strings.HasSuffix(name, ".cs"):
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil
			}
			if hits := matchKeywords(string(data)); len(hits) > 0 {
				records = append(records, report.InventoryRecord{
					File:     rel,
					APIsUsed: strings.Join(hits, ", "),
					Summary:  "Detected via keyword matching",
				})
			}
		case strings.HasSuffix(name, ".csproj"):
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil
			}
			if pkgs := kafkaPackages(data); len(pkgs) > 0 {
				records = append(records, report.InventoryRecord{
					File:     rel,
					APIsUsed: strings.Join(pkgs, ", "),
					Summary:  "Kafka NuGet packages to replace with Azure.Messaging.ServiceBus",
				})
			}
		case strings.HasPrefix(name, "appsettings") && strings.HasSuffix(name, ".json"):
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil
			}
			if keys := configKeys(data); len(keys) > 0 {
				records = append(records, report.InventoryRecord{
					File:     rel,
					APIsUsed: strings.Join(keys, ", "),
					Summary:  "Kafka configuration keys to migrate",
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk repository: %w", err)
	}
	logger.Info("scan: static scan complete", "root", root, "matches", len(records))
	return records, nil
}

func matchKeywords(content string) []string {
	var hits []string
	for _, kw := range kafkaKeywords {
		if strings.Contains(content, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// kafkaPackages returns the Kafka-related PackageReference entries of a
// .csproj project file as "Name (Version)" strings. Unparseable project
// files yield no entries rather than an error.
func kafkaPackages(data []byte) []string {
	var project struct {
		ItemGroups []struct {
			PackageReferences []struct {
				Include string `xml:"Include,attr"`
				Version string `xml:"Version,attr"`
			} `xml:"PackageReference"`
		} `xml:"ItemGroup"`
	}
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil
	}
	var pkgs []string
	for _, group := range project.ItemGroups {
		for _, ref := range group.PackageReferences {
			if !strings.Contains(strings.ToLower(ref.Include), "kafka") {
				continue
			}
			entry := ref.Include
			if ref.Version != "" {
				entry += " (" + ref.Version + ")"
			}
			pkgs = append(pkgs, entry)
		}
	}
	return pkgs
}

// configKeys flattens an appsettings JSON document and returns the
// colon-joined key paths that look Kafka-related. Invalid JSON yields no
// keys rather than an error.
func configKeys(data []byte) []string {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	flat := make(map[string]struct{})
	flatten("", doc, flat)

	var keys []string
	for key := range flat {
		lower := strings.ToLower(key)
		for _, sub := range configKeySubstrings {
			if strings.Contains(lower, sub) {
				keys = append(keys, key)
				break
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func flatten(prefix string, value interface{}, out map[string]struct{}) {
	nested, ok := value.(map[string]interface{})
	if !ok {
		if prefix != "" {
			out[prefix] = struct{}{}
		}
		return
	}
	for key, child := range nested {
		joined := key
		if prefix != "" {
			joined = prefix + ":" + key
		}
		flatten(joined, child, out)
	}
}
