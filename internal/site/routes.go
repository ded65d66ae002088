package site

import "github.com/goliatone/go-genform/pkg/store"

// Route is one entry of the static page table.
type Route struct {
	// Path is relative to the base path and has no leading slash.
	Path  string
	Title string
	// Form names the form rendered by the page; empty for the home page.
	Form string
}

// Routes returns the page table in navigation order.
func Routes() []Route {
	return []Route{
		{Path: "", Title: "Home"},
		{Path: "basic", Title: "Basic", Form: store.FormBasic},
		{Path: "submit-handler", Title: "Submit handler", Form: store.FormSubmitHandler},
		{Path: "custom-slots", Title: "Custom slots", Form: store.FormCustomSlots},
	}
}

func routeForForm(name string) (Route, bool) {
	for _, route := range Routes() {
		if route.Form != "" && route.Form == name {
			return route, true
		}
	}
	return Route{}, false
}
