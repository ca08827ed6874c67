package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskrelay/taskrelay/internal/db/bunx"
	"github.com/taskrelay/taskrelay/internal/db/models"
	"github.com/taskrelay/taskrelay/internal/repository"
	"github.com/taskrelay/taskrelay/internal/services/assignment"
	"github.com/taskrelay/taskrelay/internal/services/iam"
)

// newTestRouter wires the full stack against an in-memory SQLite store.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	db, err := bunx.NewDB(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { bunx.Close(db) })

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*models.User)(nil)).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewCreateTable().Model((*models.Assignment)(nil)).Exec(ctx)
	require.NoError(t, err)

	userRepo := repository.NewBunUserRepository(db)
	assignmentRepo := repository.NewBunAssignmentRepository(db)

	authz, err := iam.NewAuthorizer()
	require.NoError(t, err)

	return NewRouter(RouterOptions{
		IAMService:        iam.NewService(userRepo),
		AssignmentService: assignment.NewService(assignmentRepo, authz),
		Authenticator:     iam.NewAuthenticator(userRepo),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, user, pass string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.SetBasicAuth(user, pass)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, router http.Handler, username, password string, isAdmin bool) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/register", RegisterRequest{
		Username: username, Password: password, IsAdmin: isAdmin,
	}, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRegister(t *testing.T) {
	router := newTestRouter(t)

	register(t, router, "alice", "wonderland", false)

	t.Run("duplicate username conflicts regardless of payload", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/register", RegisterRequest{
			Username: "alice", Password: "different", IsAdmin: true,
		}, "", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/register", RegisterRequest{Username: "x"}, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthentication(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "alice", "wonderland", false)

	t.Run("missing credentials", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/admins", nil, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unregistered user is indistinguishable from wrong password", func(t *testing.T) {
		unknown := doJSON(t, router, http.MethodGet, "/admins", nil, "eve", "whatever")
		wrongPass := doJSON(t, router, http.MethodGet, "/admins", nil, "alice", "not-wonderland")

		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		assert.Equal(t, unknown.Body.String(), wrongPass.Body.String())
	})

	t.Run("correct credentials pass", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/admins", nil, "alice", "wonderland")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAssignmentLifecycle(t *testing.T) {
	router := newTestRouter(t)

	register(t, router, "alice", "wonderland", false)
	register(t, router, "bob", "builder", true)
	register(t, router, "carol", "singer", true)

	// Any authenticated user can discover admins.
	rec := doJSON(t, router, http.MethodGet, "/admins", nil, "alice", "wonderland")
	require.Equal(t, http.StatusOK, rec.Code)
	var admins []AdminEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &admins))
	require.Len(t, admins, 2)
	usernames := []string{admins[0].Username, admins[1].Username}
	assert.ElementsMatch(t, []string{"bob", "carol"}, usernames)

	// Admins cannot submit.
	rec = doJSON(t, router, http.MethodPost, "/upload",
		UploadRequest{Task: "grade hw1", Admin: "carol"}, "bob", "builder")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// alice submits to bob; the payload cannot spoof the submitter.
	rec = doJSON(t, router, http.MethodPost, "/upload", map[string]any{
		"task":   "grade hw1",
		"admin":  "bob",
		"userId": "mallory",
	}, "alice", "wonderland")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var uploaded MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	require.NotEmpty(t, uploaded.ID)

	// Non-admins cannot list assignments.
	rec = doJSON(t, router, http.MethodGet, "/assignments", nil, "alice", "wonderland")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// bob sees the pending assignment with the forced submitter identity.
	rec = doJSON(t, router, http.MethodGet, "/assignments", nil, "bob", "builder")
	require.Equal(t, http.StatusOK, rec.Code)
	var bobList []models.Assignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bobList))
	require.Len(t, bobList, 1)
	assert.Equal(t, "alice", bobList[0].UserID)
	assert.Equal(t, models.StatusPending, bobList[0].Status)

	// carol's queue is empty; the assignment is not addressed to her.
	rec = doJSON(t, router, http.MethodGet, "/assignments", nil, "carol", "singer")
	require.Equal(t, http.StatusOK, rec.Code)
	var carolList []models.Assignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &carolList))
	assert.Empty(t, carolList)

	// Non-admins cannot decide.
	rec = doJSON(t, router, http.MethodPost, "/assignments/"+uploaded.ID+"/accept", nil, "alice", "wonderland")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// carol cannot decide an assignment addressed to bob.
	rec = doJSON(t, router, http.MethodPost, "/assignments/"+uploaded.ID+"/accept", nil, "carol", "singer")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// bob accepts.
	rec = doJSON(t, router, http.MethodPost, "/assignments/"+uploaded.ID+"/accept", nil, "bob", "builder")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/assignments", nil, "bob", "builder")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bobList))
	assert.Equal(t, models.StatusAccepted, bobList[0].Status)

	// The transition is one-shot: a second decision finds nothing pending.
	rec = doJSON(t, router, http.MethodPost, "/assignments/"+uploaded.ID+"/reject", nil, "bob", "builder")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Decides against unknown ids are not found either.
	rec = doJSON(t, router, http.MethodPost, "/assignments/no-such-id/reject", nil, "bob", "builder")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", nil, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
