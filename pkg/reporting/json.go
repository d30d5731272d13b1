package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/godekd3133/Coin-Pilot/pkg/optimization"
)

// SaveBestJSON writes the winning parameter vector to disk so a later run
// can seed from it. Parent directories are created as needed.
func SaveBestJSON(best *optimization.Best, path string) error {
	data, err := json.MarshalIndent(best, "", "  ")
	if err != nil {
		return fmt.Errorf("reporting: marshal best: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("reporting: create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSeedJSON reads a previously saved parameter vector. Both the full
// optimization output and a bare name-to-value map are accepted.
func LoadSeedJSON(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reporting: read seed %s: %w", path, err)
	}

	var best struct {
		Parameters map[string]float64 `json:"parameters"`
	}
	if err := json.Unmarshal(data, &best); err == nil && len(best.Parameters) > 0 {
		return best.Parameters, nil
	}

	var flat map[string]float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("reporting: parse seed %s: %w", path, err)
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("reporting: seed %s holds no parameters", path)
	}
	return flat, nil
}
