package render

import (
	"encoding/json"
	"net/http"
)

type jsonResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// JSON renders json payloads
func JSON(w http.ResponseWriter, r *http.Request, v interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Error renders a json error. The kind is a stable machine-readable
// value; the detail is shown to the user verbatim.
func Error(w http.ResponseWriter, r *http.Request, kind string, detail string, code int) {
	response := &jsonResponse{
		Status: code,
		Error:  kind,
		Detail: detail,
	}
	JSON(w, r, response, code)
}
