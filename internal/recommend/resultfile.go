// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// ResultFile is the on-disk form of a saved recommendation: the query
// parameters and the result they produced.
type ResultFile struct {
	Query   ResultQuery `yaml:"query"`
	Result  Result      `yaml:"result"`
	SavedAt time.Time   `yaml:"saved_at"`
}

// ResultQuery stores the parameters of a saved query.
type ResultQuery struct {
	Text string `yaml:"text"`
	TopK int    `yaml:"top_k"`
}

// WriteResultFile saves res and the top-k that produced it as YAML.
func WriteResultFile(path string, res Result, topK int) error {
	rf := ResultFile{
		Query:   ResultQuery{Text: res.Query, TopK: topK},
		Result:  res,
		SavedAt: time.Now().UTC(),
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
