package handler

import (
	_ "embed"
	"net/http"
)

//go:embed explorer.html
var explorerPage []byte

// Explorer serves the interactive query explorer
func Explorer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(explorerPage)
}
