package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukydev/carcare-booking/internal/models"
	"github.com/ukydev/carcare-booking/internal/money"
)

// fileFormat is the on-disk catalog layout.
type fileFormat struct {
	Currency  string                   `json:"currency"`
	Offerings []models.ServiceOffering `json:"offerings"`
}

// LoadFile reads a JSON catalog file. Relative paths resolve against the
// working directory.
func LoadFile(path string) (*Catalog, error) {
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if f.Currency != "" && f.Currency != money.Currency {
		return nil, fmt.Errorf("unsupported catalog currency %q", f.Currency)
	}
	if len(f.Offerings) == 0 {
		return nil, fmt.Errorf("catalog file %s has no offerings", path)
	}
	return New(f.Offerings)
}
