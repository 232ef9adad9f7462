package tagview

import (
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// WriteHTML writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    tagview.WriteHTML(w, r, views.View("home.html", data))
//	}
func WriteHTML(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// Handler serves a view. data builds the view data from the request; nil
// renders the view without data. Compile and execute errors answer 500.
//
//	mux.Handle("/", tagview.Handler(views, "home.html", nil))
func Handler(c *Compiler, view string, data func(r *http.Request) any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var d any
		if data != nil {
			d = data(r)
		}
		out, err := c.Render(r.Context(), view, d)
		if err != nil {
			c.logger.Error("view render failed", zap.String("view", viewLabel(view)), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(out))
	})
}
