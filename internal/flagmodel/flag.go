package flagmodel

// FlagRecord is the cached representation of a feature flag.
//
// A FlagRecord is treated as an immutable value: when a flag changes, a new FlagRecord replaces the old
// one wholesale.
type FlagRecord struct {
	// ID is the unique key of the flag. In the JSON payload this is the "uid" property.
	ID string

	// Enabled is true if the flag is turned on. In the JSON payload this is the "enable" property.
	Enabled bool

	// Description is a human-readable description of the flag.
	Description string
}

// NewFlagRecord is a shortcut for constructing a FlagRecord.
func NewFlagRecord(id string, enabled bool, description string) FlagRecord {
	return FlagRecord{ID: id, Enabled: enabled, Description: description}
}

// WithEnabled returns a copy of the record with a different Enabled value.
func (f FlagRecord) WithEnabled(enabled bool) FlagRecord {
	f.Enabled = enabled
	return f
}
