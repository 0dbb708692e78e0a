// Package countries exposes the bundled country reference table. The data
// is read-only and decorates phone numbers and addresses for display.
package countries

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/studentbook/studentbook/internal/models"
)

//go:embed countries.json
var raw []byte

var (
	once   sync.Once
	table  map[string]models.Country
	parseE error
)

func parse() {
	var info models.CountryInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		parseE = fmt.Errorf("parse embedded country table: %w", err)
		return
	}
	table = info.Countries
}

// All returns the full table keyed by two-letter ISO code. The embedded
// resource is parsed once and cached for the process lifetime.
func All() (map[string]models.Country, error) {
	once.Do(parse)
	if parseE != nil {
		return nil, parseE
	}
	return table, nil
}

// Get returns the entry for a country code, or nil when unknown.
func Get(code string) (*models.Country, error) {
	all, err := All()
	if err != nil {
		return nil, err
	}
	if c, ok := all[code]; ok {
		return &c, nil
	}
	return nil, nil
}
