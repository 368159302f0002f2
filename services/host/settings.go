package host

import "strconv"

// MapSettings is a Settings implementation backed by a plain map. Host
// adapters that already hold settings as strings can use it directly.
type MapSettings map[string]string

var _ Settings = (MapSettings)(nil)

func (m MapSettings) GetString(key string) string {
	return m[key]
}

func (m MapSettings) GetBool(key string) bool {
	v, err := strconv.ParseBool(m[key])
	if err != nil {
		return false
	}
	return v
}

func (m MapSettings) GetInt(key string) int {
	v, err := strconv.Atoi(m[key])
	if err != nil {
		return 0
	}
	return v
}
