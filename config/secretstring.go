package config

// SecretStringValue is what is shown instead of the actual secret.
const SecretStringValue = "<secret>"

// SecretString is used for configuration values which must not be visible in
// logs, dumps or debug reports (service account keys).
type SecretString string

// String masks the value when it is printed or logged.
func (s SecretString) String() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}

// GoString masks the value for %#v.
func (s SecretString) GoString() string {
	return `"` + s.String() + `"`
}

// MarshalJSON marshals SecretString to JSON making sure that actual value is
// not visible.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte(`"` + SecretStringValue + `"`), nil
}

// MarshalYAML marshals SecretString to YAML making sure that actual value is
// not visible.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}
