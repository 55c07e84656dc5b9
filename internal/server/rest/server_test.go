package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/indicasta/customerd/internal/logging"
	"github.com/indicasta/customerd/internal/server/auth"
	"github.com/indicasta/customerd/internal/server/customers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memObjectStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{data: map[string][]byte{}}
}

func (s *memObjectStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[bucket+"/"+key] = data
	return nil
}

func (s *memObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := logging.NewJSONLogger(io.Discard)
	directory := customers.NewService(customers.NewMemoryRepository(), newMemObjectStore(), "test-bucket", logger)
	authService := auth.NewService(directory, "test-secret", time.Hour, logger)

	return NewServer(":0", "test-secret", authService, directory, logger)
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerCustomer(t *testing.T, s *Server, email string) *auth.Response {
	t.Helper()

	resp := doJSON(t, s, http.MethodPost, "/api/v1/auth/register", "", customers.Registration{
		FirstName: "Indira",
		LastName:  "Chen",
		Email:     email,
		Password:  "pa55word",
		Age:       30,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decodeJSON[auth.Response](t, resp)
	return &out
}

func TestServer_RegisterAndLogin(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	reg := registerCustomer(t, s, "indira@example.com")
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "indira@example.com", reg.Customer.Email)
	assert.Equal(t, []string{"USER"}, reg.Customer.Roles)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", auth.Credentials{
		Email:    "indira@example.com",
		Password: "pa55word",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	login := decodeJSON[auth.Response](t, resp)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, reg.Customer.ID, login.Customer.ID)
}

func TestServer_CreateOnCollectionAliasesRegister(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/customers", "", customers.Registration{
		FirstName: "Indira",
		LastName:  "Chen",
		Email:     "indira@example.com",
		Password:  "pa55word",
		Age:       30,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decodeJSON[auth.Response](t, resp)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "indira@example.com", out.Customer.Email)
}

func TestServer_RegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	registerCustomer(t, s, "indira@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/v1/auth/register", "", customers.Registration{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "indira@example.com",
		Password:  "pa55word",
		Age:       40,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeJSON[apiError](t, resp)
	assert.Equal(t, "/api/v1/auth/register", body.Path)
	assert.Equal(t, http.StatusConflict, body.StatusCode)
	assert.Contains(t, body.Message, "email already taken")
	assert.False(t, body.Timestamp.IsZero())
}

func TestServer_LoginBadCredentials(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	registerCustomer(t, s, "indira@example.com")

	tests := []struct {
		name  string
		creds auth.Credentials
	}{
		{"wrong password", auth.Credentials{Email: "indira@example.com", Password: "nope"}},
		{"unknown email", auth.Credentials{Email: "ghost@example.com", Password: "pa55word"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", tt.creds)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestServer_RequireAuth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not.a.jwt"},
		{"wrong key", mustToken(t, "indira@example.com", "other-secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, s, http.MethodGet, "/api/v1/customers", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func mustToken(t *testing.T, subject, secret string) string {
	t.Helper()
	token, err := auth.GenerateToken(subject, nil, []byte(secret), time.Hour)
	require.NoError(t, err)
	return token
}

func TestServer_TokenForDeletedCustomerStopsWorking(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	admin := registerCustomer(t, s, "admin@example.com")
	victim := registerCustomer(t, s, "victim@example.com")

	resp := doJSON(t, s, http.MethodDelete,
		fmt.Sprintf("/api/v1/customers/%d", victim.Customer.ID), admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The deleted customer's own token no longer resolves to an account.
	resp = doJSON(t, s, http.MethodGet, "/api/v1/customers", victim.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_ListAndGet(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	reg := registerCustomer(t, s, "indira@example.com")

	resp := doJSON(t, s, http.MethodGet, "/api/v1/customers", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	views := decodeJSON[[]customers.View](t, resp)
	require.Len(t, views, 1)
	assert.Equal(t, "indira@example.com", views[0].Email)

	resp = doJSON(t, s, http.MethodGet,
		fmt.Sprintf("/api/v1/customers/%d", reg.Customer.ID), reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view := decodeJSON[customers.View](t, resp)
	assert.Equal(t, reg.Customer.ID, view.ID)
	assert.Equal(t, "Indira", view.FirstName)
}

func TestServer_GetErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	reg := registerCustomer(t, s, "indira@example.com")

	resp := doJSON(t, s, http.MethodGet, "/api/v1/customers/9999", reg.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, s, http.MethodGet, "/api/v1/customers/abc", reg.Token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Update(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	reg := registerCustomer(t, s, "indira@example.com")
	path := fmt.Sprintf("/api/v1/customers/%d", reg.Customer.ID)

	resp := doJSON(t, s, http.MethodPut, path, reg.Token,
		customers.UpdateRequest{FirstName: "Renamed", Age: 44})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, s, http.MethodGet, path, reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeJSON[customers.View](t, resp)
	assert.Equal(t, "Renamed", view.FirstName)
	assert.Equal(t, 44, view.Age)

	// Re-sending the same values is rejected as a no-op.
	resp = doJSON(t, s, http.MethodPut, path, reg.Token,
		customers.UpdateRequest{FirstName: "Renamed", Age: 44})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeJSON[apiError](t, resp)
	assert.Contains(t, body.Message, "no data changes found")
}

func TestServer_UpdateEmailConflict(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	reg := registerCustomer(t, s, "indira@example.com")
	other := registerCustomer(t, s, "taken@example.com")

	resp := doJSON(t, s, http.MethodPut,
		fmt.Sprintf("/api/v1/customers/%d", reg.Customer.ID), reg.Token,
		customers.UpdateRequest{Email: other.Customer.Email})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServer_ProfileImageRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	reg := registerCustomer(t, s, "indira@example.com")
	content := []byte("\x89PNG\r\n\x1a\nfake image bytes")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	path := fmt.Sprintf("/api/v1/customers/%d/profile-image", reg.Customer.ID)

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+reg.Token)

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Download is public, no token needed.
	resp = doJSON(t, s, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, content, got)
}

func TestServer_ProfileImageErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	reg := registerCustomer(t, s, "indira@example.com")

	// No picture uploaded yet.
	resp := doJSON(t, s, http.MethodGet,
		fmt.Sprintf("/api/v1/customers/%d/profile-image", reg.Customer.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Multipart body without the expected part.
	resp = doJSON(t, s, http.MethodPost,
		fmt.Sprintf("/api/v1/customers/%d/profile-image", reg.Customer.ID), reg.Token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ResponseNeverCarriesPasswordHash(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	reg := registerCustomer(t, s, "indira@example.com")

	resp := doJSON(t, s, http.MethodGet, "/api/v1/customers", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "pa55word")
}
