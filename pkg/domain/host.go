package domain

// HostContext is the typed view of the metadata the host sends next to the book.
// The raw map is what templates see; this view only serves version checks and logs.
type HostContext struct {
	Root          string         `json:"root" mapstructure:"root"`
	Renderer      string         `json:"renderer" mapstructure:"renderer"`
	MdbookVersion string         `json:"mdbook_version" mapstructure:"mdbook_version"`
	Config        map[string]any `json:"config" mapstructure:"config"`
}
