package core

// Secret holds an API key in memory and keeps it out of logs and dumps.
// String, GoString, MarshalJSON and MarshalText all redact; Expose returns
// the real value for the Authorization header and for token signing.
//
//	key := NewSecret("masterKey")
//	fmt.Println(key)  // [REDACTED]
//	key.Expose()      // "masterKey"
type Secret struct {
	value string
}

// NewSecret wraps value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

func (s Secret) String() string {
	return "[REDACTED]"
}

func (s Secret) GoString() string {
	return "core.Secret{[REDACTED]}"
}

// MarshalJSON never emits the key.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// MarshalText never emits the key (covers YAML and other text encoders).
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// Expose returns the actual key.
func (s Secret) Expose() string {
	return s.value
}

// Prefix returns the first n bytes of the key, or the whole key when it is
// shorter than n.
func (s Secret) Prefix(n int) string {
	if n < 0 {
		n = 0
	}
	if len(s.value) <= n {
		return s.value
	}
	return s.value[:n]
}

// IsEmpty reports whether no key is set.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
