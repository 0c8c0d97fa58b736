package core

// AppRegistry is the read-only catalog of external applications a task can
// point at. Build it once at startup and share it; there is no way to change
// it afterwards.
type AppRegistry struct {
	apps []App
}

func NewAppRegistry(apps ...App) *AppRegistry {
	out := make([]App, len(apps))
	copy(out, apps)
	return &AppRegistry{apps: out}
}

// DefaultAppRegistry returns the applications known to the tracker. Icons are
// file names under /static/icons.
func DefaultAppRegistry() *AppRegistry {
	return NewAppRegistry(
		App{Name: "VSCode", URI: "vscode://", Icon: "vscode.png"},
		App{Name: "Sketch", URI: "sketch://", Icon: "sketch.png"},
		App{Name: "Xcode", URI: "xcode://", Icon: "xcode.png"},
		App{Name: "GitHub", URI: "x-github-client://", Icon: "github.png"},
		App{Name: "Figma", URI: "figma://", Icon: "figma.png"},
	)
}

// FindByURI looks an application up by exact URI match.
func (r *AppRegistry) FindByURI(uri string) (App, bool) {
	if r == nil {
		return App{}, false
	}
	for _, a := range r.apps {
		if a.URI == uri {
			return a, true
		}
	}
	return App{}, false
}

func (r *AppRegistry) All() []App {
	if r == nil {
		return []App{}
	}
	out := make([]App, len(r.apps))
	copy(out, r.apps)
	return out
}

func (r *AppRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.apps)
}
