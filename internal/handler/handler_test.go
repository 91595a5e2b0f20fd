package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/user-roster/internal/domain/user"
)

// --- Mock implementations ---

type mockUserRepo struct {
	users   []user.User
	listErr error
	calls   int
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	u.ID = int64(len(m.users) + 1)
	m.users = append(m.users, u)
	return u, nil
}

func (m *mockUserRepo) FindAll(_ context.Context) ([]user.User, error) {
	m.calls++
	return m.users, m.listErr
}

// --- Helpers ---

func seededRepo(t *testing.T) *mockUserRepo {
	t.Helper()

	repo := &mockUserRepo{}
	_, err := user.Seed(context.Background(), repo)
	require.NoError(t, err)
	return repo
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestListUsers(t *testing.T) {
	repo := seededRepo(t)
	h := NewHandler(repo).Router()

	w := get(t, h, "/api/users/all")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 5)

	wantNames := []string{"Jack", "Chloe", "Kim", "David", "Michelle"}
	for i, item := range body {
		assert.Len(t, item, 3)
		assert.Contains(t, item, "id")
		assert.Equal(t, wantNames[i], item["name"])
		assert.Equal(t, float64((i+1)*1000), item["salary"])
	}
}

func TestListUsers_ExactBody(t *testing.T) {
	repo := &mockUserRepo{users: []user.User{
		{ID: 1, Name: "Jack", Salary: 1000},
		{ID: 7, Name: `Quote "Q"`, Salary: 2000},
	}}

	w := get(t, NewHandler(repo).Router(), "/api/users/all")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`[{"id":1,"name":"Jack","salary":1000},{"id":7,"name":"Quote \"Q\"","salary":2000}]`,
		w.Body.String(),
	)
}

func TestListUsers_Empty(t *testing.T) {
	for _, users := range [][]user.User{nil, {}} {
		w := get(t, NewHandler(&mockUserRepo{users: users}).Router(), "/api/users/all")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	}
}

func TestListUsers_StorageError(t *testing.T) {
	repo := &mockUserRepo{listErr: user.NewStorageError("find users", errors.New("db down"))}

	w := get(t, NewHandler(repo).Router(), "/api/users/all")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
	assert.Equal(t, 1, repo.calls, "no retries")
}

func TestListUsers_NoCaching(t *testing.T) {
	repo := seededRepo(t)
	h := NewHandler(repo).Router()

	first := get(t, h, "/api/users/all")
	second := get(t, h, "/api/users/all")

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 2, repo.calls)
}

func TestRoutes(t *testing.T) {
	h := NewHandler(seededRepo(t)).Router()

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/users/all", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("unknown path", func(t *testing.T) {
		w := get(t, h, "/api/users")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEncodeUser(t *testing.T) {
	var e jx.Encoder
	encodeUser(&e, user.User{ID: 3, Name: "Kim", Salary: 3000})

	assert.Equal(t, `{"id":3,"name":"Kim","salary":3000}`, e.String())
}
