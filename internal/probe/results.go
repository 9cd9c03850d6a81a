package probe

import (
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult is one entry of the analyzer's proofs.json, keyed by
// symbol id.
type VerifyResult struct {
	CodePath string `json:"code-path"`
	CodeLine int    `json:"code-line"`
	Verified bool   `json:"verified"`
	Status   string `json:"status"`
}

func LoadVerifyResults(path string) (map[string]VerifyResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read proofs from %s: %w", path, err)
	}
	var results map[string]VerifyResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to decode proofs from %s: %w", path, err)
	}
	return results, nil
}

// Partition splits proof results into verified and failed symbol sets.
// Anything not positively verified counts as failed.
func Partition(results map[string]VerifyResult) (verified, failed map[string]bool) {
	verified = make(map[string]bool)
	failed = make(map[string]bool)
	for name, result := range results {
		if result.Verified {
			verified[name] = true
		} else {
			failed[name] = true
		}
	}
	return verified, failed
}

// SpecResult is one entry of the analyzer's specs.json, keyed by symbol
// id.
type SpecResult struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	Specified bool   `json:"specified"`
	SpecText  string `json:"spec-text,omitempty"`
}

func LoadSpecResults(path string) (map[string]SpecResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specs from %s: %w", path, err)
	}
	var results map[string]SpecResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to decode specs from %s: %w", path, err)
	}
	return results, nil
}

// Specified filters spec results to symbols whose analysis found a spec.
func Specified(results map[string]SpecResult) map[string]SpecResult {
	out := make(map[string]SpecResult)
	for name, result := range results {
		if result.Specified {
			out[name] = result
		}
	}
	return out
}
