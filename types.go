package fig

import (
	"path/filepath"

	"github.com/evanhalley/fig/internal/browser"
)

// Placeholder tokens substituted into the template.
const (
	TitleToken  = "[[TITLE]]"
	AuthorToken = "[[AUTHOR]]"
	DateToken   = "[[DATE]]"
)

// DefaultOutputFormat is the extension of images written without an explicit
// output path.
const DefaultOutputFormat = "jpg"

// Viewport is the logical page size the template is captured at.
type Viewport = browser.Viewport

// DefaultViewport is the fixed feature image size.
var DefaultViewport = Viewport{Width: 1200, Height: 600, Scale: 1}

// Request describes one image. It is not modified by GenerateImage.
type Request struct {
	Title  string // required
	Date   string // parseable date; rendered with the generator's date format
	Author string // required

	Template    Resource // HTML with [[TITLE]], [[AUTHOR]], [[DATE]]
	CSS         Resource // staged as style.css next to the template
	AuthorImage Resource // staged as author.jpg next to the template

	Output string // explicit output file; empty = <slug>.jpg in the output directory
}

// OutputTarget is where a run writes its image.
type OutputTarget struct {
	Dir      string // absolute
	Filename string
}

// Path joins Dir and Filename.
func (o OutputTarget) Path() string {
	return filepath.Join(o.Dir, o.Filename)
}

// State is a pipeline stage.
type State int

// Pipeline stages, in order.
const (
	StateIdle State = iota
	StateStaging
	StateComposing
	StateRendering
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStaging:
		return "staging"
	case StateComposing:
		return "composing"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
