package config

// Section is a named group of settings persisted as one object in the
// config file.
type Section interface {
	// ID is the key of the section in the config file
	ID() string

	// Title is a short human-readable name
	Title() string

	// Description explains what the section controls
	Description() string

	// Data returns the section as plain values suitable for JSON
	Data() map[string]any

	// SetData applies values read from the config file. Unknown keys are
	// ignored.
	SetData(data map[string]any) error

	// Validate reports whether the current values are usable
	Validate() error
}
