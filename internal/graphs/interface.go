package graphs

import (
	"io"
	"os"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/diagram"
)

// Scene is a finished diagram together with the primitives it drew.
type Scene struct {
	Diagram *diagram.Diagram
	// Items are the drawn primitives, back to front.
	Items []canvas.Item
	Theme canvas.Theme
}

// Renderer writes a Scene in some file format.
type Renderer interface {
	Render(w io.Writer, sc Scene) error
	// Ext is the file extension, without the dot.
	Ext() string
}

// RenderToFile renders sc to filename plus the renderer's extension and
// returns the path written.
func RenderToFile(r Renderer, sc Scene, filename string) (string, error) {
	path := filename + "." + r.Ext()

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := r.Render(f, sc); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// ByFormat returns the renderer for a format name.
func ByFormat(format string) (Renderer, bool) {
	switch format {
	case "svg":
		return SVG{}, true
	case "html":
		return ECharts{}, true
	}
	return nil, false
}
