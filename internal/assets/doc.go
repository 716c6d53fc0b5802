// Package assets provides the default resource bundle used to compose feature
// images: an HTML template, its stylesheet and an author picture.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in bundle)
//	    ├── FilesystemLoader  - loads from the user's bundle directory
//	    └── Resolver          - combines both with user-first fallback
//
// The Resolver is what the generator uses for default resources. A file the
// user placed in the bundle directory wins; a missing file (or a missing
// directory) falls back to the embedded copy, so fig works out of the box and
// a single file can be overridden without copying the rest.
//
// # Directory Structure
//
//	~/.fig/template/
//	├── template.html   # markup with [[TITLE]], [[AUTHOR]], [[DATE]]
//	├── style.css       # referenced by template.html as "style.css"
//	└── author.jpg      # referenced by template.html as "author.jpg"
//
// # Security
//
// Resource names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within its base
// directory.
package assets
