package cache

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// LayoutKey identifies a layout computed from a model.
	LayoutKey(mapHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	// ExtractKey identifies the category map extracted from response text.
	ExtractKey(textHash string) string
}

// LayoutKeyOpts holds the inputs besides the map that shape a layout.
type LayoutKeyOpts struct {
	Central        string  `json:"central"`
	CategoryRadius float64 `json:"category_radius"`
	LeafRadius     float64 `json:"leaf_radius"`
	LeafSpan       float64 `json:"leaf_span"`
}

// ArtifactKeyOpts holds the render settings that shape an artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Style   string  `json:"style"`
	Zoom    float64 `json:"zoom,omitempty"`
	NoTitle bool    `json:"no_title,omitempty"`
}

// DefaultKeyer hashes key inputs into fixed-length keys of the form
// "mindmap:<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(mapHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyPrefix+"layout", mapHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyPrefix+"artifact", layoutHash, opts)
}

// ExtractKey implements Keyer.
func (DefaultKeyer) ExtractKey(textHash string) string {
	return KeyPrefix + "extract:" + textHash
}

// KeyPrefix starts every key produced by DefaultKeyer.
const KeyPrefix = "mindmap:"

var _ Keyer = DefaultKeyer{}
