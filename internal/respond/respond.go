// Package respond writes the JSON response envelope used by every handler.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
)

type errorBody struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error maps err through the apperr taxonomy and writes {"error": message}.
func Error(w http.ResponseWriter, err error) {
	JSON(w, apperr.Status(err), errorBody{Error: apperr.PublicMessage(err)})
}
