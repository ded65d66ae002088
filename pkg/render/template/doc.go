// Package template defines the template engine seam shared by the HTML
// renderer and the demo site. The pongo2-backed implementation lives in the
// gotemplate subpackage.
package template
