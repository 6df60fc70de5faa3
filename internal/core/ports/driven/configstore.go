package driven

// ConfigStore provides access to persisted exporter settings.
// Keys may use dot notation for values nested in TOML tables.
type ConfigStore interface {
	// Get retrieves a raw value and whether the key exists.
	Get(key string) (any, bool)

	// GetString returns "" when the key is missing or not a string.
	GetString(key string) string

	// GetInt returns 0 when the key is missing or not numeric.
	GetInt(key string) int

	// GetBool returns false when the key is missing or not a boolean.
	GetBool(key string) bool

	// GetFloat returns 0 when the key is missing or not numeric.
	GetFloat(key string) float64

	// Set stores a value and persists it.
	Set(key string, value any) error

	// Save persists the current settings.
	Save() error

	// Load re-reads settings from storage.
	Load() error

	// Path returns the backing file path.
	Path() string
}
