package models

// Country is one entry of the bundled reference table, keyed by its
// two-letter ISO code in CountryInfo.
type Country struct {
	Name      string            `json:"Name"`
	Region    string            `json:"Region"`
	Timezones map[string]string `json:"Timezones"`
	ISO       map[string]string `json:"Iso"`
	Phone     []string          `json:"Phone"`
	Emoji     string            `json:"Emoji"`
	Image     string            `json:"Image"`
}

// CountryInfo is the top-level shape of the embedded country resource.
type CountryInfo struct {
	Countries map[string]Country `json:"Countries"`
}
