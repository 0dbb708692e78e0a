package models

// Well-known setting keys seeded at first run.
const (
	SettingAdminUsername     = "AdminUsername"
	SettingAdminPasswordHash = "AdminPasswordHash"
	SettingAdminSalt         = "AdminSalt"
	SettingIDFormat          = "AdminIdFormatting"
	SettingEmailFormat       = "AdminEmailFormatting"
	SettingEmailDomain       = "AdminEmailDomain"
	SettingBarangayEnabled   = "AdminIsBarangayEnabled"
	SettingDefaultPassword   = "DefaultUserPassword"
)

// Setting is a scoped key/value configuration row. The value is always
// stored as a string; the Is* flags are advisory type tags and are not
// enforced anywhere.
type Setting struct {
	ID       int      `db:"id" json:"Id"`
	Key      string   `db:"key" json:"Key"`
	Value    string   `db:"value" json:"Value"`
	IsBool   bool     `db:"is_bool" json:"IsBool"`
	IsInt    bool     `db:"is_int" json:"IsInt"`
	IsLong   bool     `db:"is_long" json:"IsLong"`
	IsString bool     `db:"is_string" json:"IsString"`
	Scope    UserRole `db:"scope" json:"Scope"`
}
