package utils

import (
	"encoding/json"
	"net/http"
)

// GenericErrorMessage is the only text a 5xx response ever carries.
const GenericErrorMessage = "Something went wrong!"

// JSON writes data as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Error writes an error body in the same {"message": ...} shape.
func Error(w http.ResponseWriter, status int, msg string) {
	Message(w, status, msg)
}
