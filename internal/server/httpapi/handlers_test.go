package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/adminapi"
	"github.com/dmitrijs2005/saasadmin/internal/common"
	"github.com/dmitrijs2005/saasadmin/internal/directory"
	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
	"github.com/dmitrijs2005/saasadmin/internal/server/auth"
	"github.com/dmitrijs2005/saasadmin/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

type fakeDirectory struct {
	accounts []directory.Account
	listErr  error

	deleteErr error
	deleted   []string
	actors    []*identity.Principal
}

func (f *fakeDirectory) IsAdmin(p *identity.Principal) bool {
	return p != nil && p.Email == "admin@example.com"
}

func (f *fakeDirectory) ListUsers(_ context.Context, actor *identity.Principal) ([]directory.Account, directory.Stats, error) {
	f.actors = append(f.actors, actor)
	if !f.IsAdmin(actor) {
		return nil, directory.Stats{}, common.ErrorUnauthorized
	}
	if f.listErr != nil {
		return nil, directory.Stats{}, f.listErr
	}
	return f.accounts, directory.ComputeStats(f.accounts), nil
}

func (f *fakeDirectory) DeleteUser(_ context.Context, actor *identity.Principal, id string) error {
	f.actors = append(f.actors, actor)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func token(t *testing.T, id, email string) string {
	t.Helper()
	tok, err := auth.GenerateToken(id, email, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, dir Directory, method, path, tok, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	NewRouter(dir, secret, logging.Nop{}).ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e adminapi.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e.Error
}

func TestHealth(t *testing.T) {
	rec := do(t, &fakeDirectory{}, http.MethodGet, adminapi.HealthPath, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, adminapi.HealthPath, nil)
	req.Header.Set(RequestIDHeader, "3f0e8a3c-0000-4000-8000-000000000001")
	rec := httptest.NewRecorder()
	NewRouter(&fakeDirectory{}, secret, logging.Nop{}).ServeHTTP(rec, req)
	assert.Equal(t, "3f0e8a3c-0000-4000-8000-000000000001", rec.Header().Get(RequestIDHeader))
}

func TestListUsers_OK(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	dir := &fakeDirectory{accounts: []directory.Account{
		{ID: "u1", Email: "a@example.com", DisplayName: "a", CreatedAt: created, AuthProvider: "email", IsSubscribed: true},
		{ID: "u2", Email: "b@example.com", DisplayName: "b", AuthProvider: "google"},
	}}

	rec := do(t, dir, http.MethodGet, adminapi.UsersPath, token(t, "admin-id", "admin@example.com"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	l, err := adminapi.DecodeListResponse(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, l.Accounts, 2)
	assert.Equal(t, "u1", l.Accounts[0].ID)
	assert.True(t, l.Accounts[0].CreatedAt.Equal(created))
	require.NotNil(t, l.Stats)
	assert.Equal(t, directory.NewStats(2, 1), *l.Stats)

	require.Len(t, dir.actors, 1)
	assert.Equal(t, "admin-id", dir.actors[0].ID)
}

func TestListUsers_Unauthorized(t *testing.T) {
	cases := map[string]string{
		"no token":  "",
		"not admin": token(t, "u2", "bob@example.com"),
		"bad token": "garbage",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, &fakeDirectory{}, http.MethodGet, adminapi.UsersPath, tok, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized", errorBody(t, rec))
		})
	}
}

func TestListUsers_StorageError(t *testing.T) {
	dir := &fakeDirectory{listErr: errors.New("list accounts: db error: connection reset")}
	rec := do(t, dir, http.MethodGet, adminapi.UsersPath, token(t, "a", "admin@example.com"), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "list accounts: db error: connection reset", errorBody(t, rec))
}

func TestDeleteUser_OK(t *testing.T) {
	dir := &fakeDirectory{}
	rec := do(t, dir, http.MethodDelete, adminapi.UsersPath, token(t, "a", "admin@example.com"), `{"userId":"u2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, []string{"u2"}, dir.deleted)
}

func TestDeleteUser_Errors(t *testing.T) {
	admin := token(t, "a", "admin@example.com")
	cases := []struct {
		name    string
		tok     string
		body    string
		err     error
		status  int
		message string
	}{
		{"not admin", token(t, "b", "bob@example.com"), `{"userId":"u2"}`, nil, http.StatusUnauthorized, "Unauthorized"},
		{"bad body", admin, `{"userId":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"missing id", admin, `{}`, services.ErrUserIDRequired, http.StatusBadRequest, "User ID required"},
		{"malformed id", admin, `{"userId":"x"}`, services.ErrMalformedUserID, http.StatusBadRequest, "Invalid user ID"},
		{"self", admin, `{"userId":"a"}`, common.ErrorSelfDeletion, http.StatusForbidden, "Cannot delete yourself"},
		{"unknown", admin, `{"userId":"u9"}`, common.ErrorNotFound, http.StatusNotFound, "User not found"},
		{"archive", admin, `{"userId":"u2"}`, errors.New("archive put: access denied"), http.StatusInternalServerError, "archive put: access denied"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := &fakeDirectory{deleteErr: c.err}
			rec := do(t, dir, http.MethodDelete, adminapi.UsersPath, c.tok, c.body)
			assert.Equal(t, c.status, rec.Code)
			assert.Equal(t, c.message, errorBody(t, rec))
			assert.Empty(t, dir.deleted)
		})
	}
}

func TestCheckAdmin(t *testing.T) {
	cases := []struct {
		name string
		tok  string
		want bool
	}{
		{"admin", token(t, "a", "admin@example.com"), true},
		{"user", token(t, "b", "bob@example.com"), false},
		{"anonymous", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := do(t, &fakeDirectory{}, http.MethodGet, adminapi.CheckAdminPath, c.tok, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "private, max-age=60", rec.Header().Get("Cache-Control"))

			var body adminapi.CheckAdminResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, c.want, body.IsAdmin)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, &fakeDirectory{}, http.MethodPost, adminapi.UsersPath, "", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHTTPServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewHTTPServer(ln.Addr().String(), &fakeDirectory{}, string(secret), time.Second, logging.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + adminapi.HealthPath)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
