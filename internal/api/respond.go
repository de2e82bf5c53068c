package api

import (
	"encoding/json"
	"net/http"
)

// All endpoints answer with the uniform envelope: {"success": true, …}
// on success and {"success": false, "error": …} on any failure, always
// as a normal HTTP 200. Callers depend on the envelope, not on status
// codes.

func writeJSON(w http.ResponseWriter, data map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(data)
}

func ok(w http.ResponseWriter, fields map[string]any) {
	data := map[string]any{"success": true}
	for k, v := range fields {
		data[k] = v
	}
	writeJSON(w, data)
}

func fail(w http.ResponseWriter, err error) {
	writeJSON(w, map[string]any{"success": false, "error": err.Error()})
}
