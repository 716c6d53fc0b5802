package assets

// Canonical resource filenames. The default template references the other
// two by these names, so staged copies always use them.
const (
	TemplateFile    = "template.html"
	StyleFile       = "style.css"
	AuthorImageFile = "author.jpg"
)

// OriginEmbedded is the origin LoadWithOrigin reports for built-in content.
const OriginEmbedded = "embedded"

// DefaultBundleDir is the user's bundle directory, relative to the home directory.
const DefaultBundleDir = ".fig/template"

// BundleFiles lists every resource of a complete bundle.
var BundleFiles = []string{TemplateFile, StyleFile, AuthorImageFile}

// Loader defines the contract for loading bundle resources.
// Implementations may load from embedded files, a directory, object storage, etc.
type Loader interface {
	// Load returns the content of the named resource (e.g. "style.css").
	// Returns ErrResourceNotFound if the resource doesn't exist.
	// Returns ErrInvalidResourceName if the name contains invalid characters.
	Load(name string) ([]byte, error)
}
