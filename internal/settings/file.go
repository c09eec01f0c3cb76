package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"ghactivity/internal/types"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

const filePerms = 0o600

// fileEnvelope matches the browser extension's storage layout.
type fileEnvelope struct {
	Filters *json.RawMessage `json:"filters"`
}

// ParseFilters decodes a filters document. Comments and trailing commas are
// allowed. Both {"filters": {...}} and a bare filters object are accepted;
// missing fields take their default values.
func ParseFilters(data []byte) (types.FilterConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return types.FilterConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	body := standardized
	var env fileEnvelope
	if err := json.Unmarshal(standardized, &env); err == nil && env.Filters != nil {
		body = *env.Filters
	}

	f := DefaultFilters()
	if err := json.Unmarshal(body, &f); err != nil {
		return types.FilterConfig{}, fmt.Errorf("invalid filters: %w", err)
	}
	return f, nil
}

// ImportFile reads and normalizes a filters document from path.
func ImportFile(path string) (types.FilterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FilterConfig{}, fmt.Errorf("failed to read filters file: %w", err)
	}
	f, err := ParseFilters(data)
	if err != nil {
		return types.FilterConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return Normalize(f)
}

// ExportFile writes f to path as {"filters": {...}}, replacing the file
// atomically.
func ExportFile(path string, f types.FilterConfig) error {
	content, err := json.MarshalIndent(struct {
		Filters types.FilterConfig `json:"filters"`
	}{f}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}
	content = append(content, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("failed to write filters file: %w", err)
	}
	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(path, filePerms); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	return nil
}
