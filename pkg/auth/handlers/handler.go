package handlers

import "net/http"

// AuthHandler is an interface for hosted account endpoints. Providers
// that delegate credential checks to an external service implement it
// so the API server can mount register, login, refresh, and delete
// routes under /auth.
type AuthHandler interface {
	HandleRegister() func(w http.ResponseWriter, r *http.Request)
	HandleLogin() func(w http.ResponseWriter, r *http.Request)
	HandleRefresh() func(w http.ResponseWriter, r *http.Request)
	HandleDelete() func(w http.ResponseWriter, r *http.Request)
}
