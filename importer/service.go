package importer

import (
	"fitlog/config"
	"fitlog/workout"
	"fmt"
	"path/filepath"
	"strings"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Entries        []workout.Entry
}

// RunOptions carries per-run defaults from CLI flags. They take precedence
// over values supplied by a matching import rule.
type RunOptions struct {
	Activity string
	Unit     string
}

func Run(paths []string, format string, mapper Mapper, cfg config.Config, options RunOptions) (*Result, error) {
	result := &Result{Entries: make([]workout.Entry, 0, 256)}
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}

		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		cfgForFile := resolveConfigForFile(path, cfg, options)

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			entry, ok, mapErr := mapper.Map(record, cfgForFile)
			if mapErr != nil {
				return nil, fmt.Errorf("%s: %w", path, mapErr)
			}
			if !ok || entry == nil {
				result.RowsSkipped++
				continue
			}

			result.RowsMapped++
			result.Entries = append(result.Entries, *entry)
		}
	}

	return result, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

func resolveConfigForFile(path string, cfg config.Config, options RunOptions) config.Config {
	resolved := cfg

	rule := MatchRuleByTemplate(path, cfg.Rules)
	resolved.ImportActivity = firstNonEmpty(options.Activity, rule.Activity)
	resolved.ImportUnit = firstNonEmpty(options.Unit, rule.Unit)

	return resolved
}

func MatchRuleByTemplate(path string, rules []config.Rule) config.Rule {
	baseName := filepath.Base(path)
	for _, rule := range rules {
		template := strings.TrimSpace(rule.FileTemplate)
		if template == "" {
			continue
		}
		matchesBase, err := filepath.Match(template, baseName)
		if err == nil && matchesBase {
			return rule
		}
		matchesFull, err := filepath.Match(template, path)
		if err == nil && matchesFull {
			return rule
		}
	}
	return config.Rule{}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
