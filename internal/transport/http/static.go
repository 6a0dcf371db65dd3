package transporthttp

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed public
var publicFS embed.FS

var assets = mustSub(publicFS, "public")

func mustSub(f fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// HandleStatic serves the embedded viewer pages. Unknown paths get the JSON 404.
func (d *ServerDeps) HandleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	fi, err := fs.Stat(assets, name)
	if err != nil || fi.IsDir() {
		d.HandleNotFound(w, r)
		return
	}
	f, err := assets.Open(name)
	if err != nil {
		d.HandleNotFound(w, r)
		return
	}
	defer f.Close()

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		d.HandleNotFound(w, r)
		return
	}
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), rs)
}
