package handler

import (
	"net/http"

	"github.com/tinggo/tinggo/internal/view"
)

// HandleHome renders the home page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	render(w, r, http.StatusOK, view.HomePage(chrome(r)))
}
