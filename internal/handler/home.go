package handler

import "net/http"

// HandleHome sends signed-in users to their dashboard and everyone else to
// the login page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
