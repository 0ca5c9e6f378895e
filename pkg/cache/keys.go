package cache

// Key types passed to observability cache hooks.
const (
	KeyTypeDocument = "document"
	KeyTypeUpdate   = "update"
	KeyTypeArtifact = "artifact"
)

// keyVersion changes whenever rendered output changes shape, orphaning old
// entries.
const keyVersion = "v1"

// Keyer derives cache keys from content hashes.
type Keyer interface {
	// DocumentKey keys the full SVG of a freshly composed document.
	DocumentKey(descriptionHash string) string

	// UpdateKey keys the reconfiguration payload of a configuration applied
	// to a description.
	UpdateKey(descriptionHash, configurationHash string) string

	// ArtifactKey keys an exported artifact (png, pdf, dot, ...).
	ArtifactKey(descriptionHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the inputs, besides the description, that shape an
// artifact.
type ArtifactKeyOpts struct {
	Format            string  `json:"format"`
	ConfigurationHash string  `json:"configuration,omitempty"`
	ClipPath          string  `json:"clip_path,omitempty"`
	Scale             float64 `json:"scale,omitempty"`
	Detailed          bool    `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey implements [Keyer].
func (DefaultKeyer) DocumentKey(descriptionHash string) string {
	return hashKey(KeyTypeDocument, keyVersion, descriptionHash)
}

// UpdateKey implements [Keyer].
func (DefaultKeyer) UpdateKey(descriptionHash, configurationHash string) string {
	return hashKey(KeyTypeUpdate, keyVersion, descriptionHash, configurationHash)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(descriptionHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, keyVersion, descriptionHash, opts)
}
