package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskrelay/taskrelay/internal/db/models"
	"github.com/taskrelay/taskrelay/internal/services/assignment"
	"github.com/taskrelay/taskrelay/internal/services/iam"
)

// RelayHandlers wires the JSON REST endpoints.
type RelayHandlers struct {
	iam         *iam.Service
	assignments *assignment.Service
}

// NewRelayHandlers creates the handler set for the service endpoints.
func NewRelayHandlers(iamService *iam.Service, assignmentService *assignment.Service) *RelayHandlers {
	return &RelayHandlers{iam: iamService, assignments: assignmentService}
}

// RegisterRequest represents the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// UploadRequest represents an assignment submission. A userId field in the
// payload is ignored; the submitter identity always comes from the
// authenticated principal.
type UploadRequest struct {
	Task  string `json:"task"`
	Admin string `json:"admin"`
}

// MessageResponse is the success payload for mutating endpoints.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// AdminEntry mirrors the username projection of the admin listing.
type AdminEntry struct {
	Username string `json:"username"`
}

// Register handles POST /register.
//
// The caller-supplied is_admin flag is stored verbatim; that keeps wire
// compatibility with the original service but means callers self-declare
// privilege. Deployments that need a gated admin path should use the
// `users create-admin` CLI and reject the flag at the edge.
func (h *RelayHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	log.Printf("INFO: received registration request for user: %s", req.Username)

	if err := h.iam.Register(r.Context(), req.Username, req.Password, req.IsAdmin); err != nil {
		writeError(w, err, "forbidden")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User registered successfully"})
}

// Upload handles POST /upload.
func (h *RelayHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	principal, ok := iam.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Task == "" || req.Admin == "" {
		http.Error(w, "task and admin are required", http.StatusBadRequest)
		return
	}

	record, err := h.assignments.Upload(r.Context(), &principal, req.Task, req.Admin)
	if err != nil {
		writeError(w, err, "Admins cannot upload assignments")
		return
	}

	log.Printf("INFO: assignment uploaded by %s, id: %s", principal.Username, record.ID)
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Assignment uploaded successfully",
		ID:      record.ID,
	})
}

// ListAdmins handles GET /admins.
func (h *RelayHandlers) ListAdmins(w http.ResponseWriter, r *http.Request) {
	if _, ok := iam.PrincipalFromContext(r.Context()); !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	admins, err := h.iam.ListAdmins(r.Context())
	if err != nil {
		writeError(w, err, "forbidden")
		return
	}

	entries := make([]AdminEntry, 0, len(admins))
	for _, username := range admins {
		entries = append(entries, AdminEntry{Username: username})
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListAssignments handles GET /assignments.
func (h *RelayHandlers) ListAssignments(w http.ResponseWriter, r *http.Request) {
	principal, ok := iam.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	assignments, err := h.assignments.ListForAdmin(r.Context(), &principal)
	if err != nil {
		writeError(w, err, "Only admins can view assignments")
		return
	}

	writeJSON(w, http.StatusOK, assignments)
}

// AcceptAssignment handles POST /assignments/{id}/accept.
func (h *RelayHandlers) AcceptAssignment(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.StatusAccepted, "Assignment accepted successfully")
}

// RejectAssignment handles POST /assignments/{id}/reject.
func (h *RelayHandlers) RejectAssignment(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.StatusRejected, "Assignment rejected successfully")
}

func (h *RelayHandlers) decide(w http.ResponseWriter, r *http.Request, status models.AssignmentStatus, message string) {
	principal, ok := iam.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "assignment id is required", http.StatusBadRequest)
		return
	}

	if err := h.assignments.Decide(r.Context(), &principal, id, status); err != nil {
		writeError(w, err, "Only admins can decide assignments")
		return
	}

	log.Printf("INFO: assignment %s %s by %s", id, status, principal.Username)
	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR: encode response: %v", err)
	}
}
