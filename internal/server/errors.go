package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/taskrelay/taskrelay/internal/services/assignment"
	"github.com/taskrelay/taskrelay/internal/services/iam"
)

// writeError maps service errors onto the HTTP status taxonomy: forbidden
// actions are 403 (with the endpoint's denial message), missing or
// foreign-addressed assignments are 404, duplicate registrations are 409,
// malformed transitions are 400, and anything else is a 500 store or
// infrastructure failure.
func writeError(w http.ResponseWriter, err error, forbiddenMsg string) {
	switch {
	case errors.Is(err, iam.ErrForbidden):
		http.Error(w, forbiddenMsg, http.StatusForbidden)
	case errors.Is(err, assignment.ErrNotFound):
		http.Error(w, "Assignment not found or not assigned to you", http.StatusNotFound)
	case errors.Is(err, iam.ErrUsernameTaken):
		http.Error(w, "Username already registered", http.StatusConflict)
	case errors.Is(err, assignment.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("ERROR: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
