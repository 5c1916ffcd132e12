package manifest

// Alternate is an alternative location for the same asset content.
type Alternate struct {
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// Asset is a single named downloadable resource belonging to an owner record.
type Asset struct {
	// Href points at the asset's content. It may be relative to the owner's
	// base href until made absolute, and is rewritten to the local path after
	// a successful download.
	Href string `json:"href"`

	Title     string `json:"title,omitempty"`
	MediaType string `json:"type,omitempty"`

	// Alternates maps alternate names (e.g. "s3") to alternative locations
	// for the same content.
	Alternates map[string]Alternate `json:"alternate,omitempty"`

	// OriginalHref records the remote href an asset was downloaded from once
	// Href has been rewritten to a local path. Serialized as the "from"
	// alternate.
	OriginalHref string `json:"-"`
}

// Alternate returns the alternate with the given name, if present.
func (a *Asset) Alternate(name string) (Alternate, bool) {
	alt, ok := a.Alternates[name]
	return alt, ok
}

// Clone returns a deep copy of the asset.
func (a *Asset) Clone() *Asset {
	clone := *a
	if a.Alternates != nil {
		clone.Alternates = make(map[string]Alternate, len(a.Alternates))
		for name, alt := range a.Alternates {
			clone.Alternates[name] = alt
		}
	}
	return &clone
}
