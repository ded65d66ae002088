package render

import (
	"context"

	"github.com/goliatone/go-genform/pkg/model"
)

// Renderer converts a form definition plus live field state into a byte
// representation (HTML markup, a terminal session transcript, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.Form, options RenderOptions) ([]byte, error)
}
