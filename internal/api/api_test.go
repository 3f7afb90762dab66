package api

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	json "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/taskboard/taskboard/internal/config"
	"github.com/taskboard/taskboard/internal/services"
	"github.com/taskboard/taskboard/internal/services/task"
	"github.com/taskboard/taskboard/internal/services/user"
	"github.com/taskboard/taskboard/internal/token"
)

const testSignKey = "e2e-sign-key"

type testServer struct {
	client *http.Client
	users  *user.MemoryRepo
}

// newTestServer runs the full HTTP surface over in-memory repositories and an
// in-memory listener.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conf := &config.Config{JWT_SIGN_KEY: testSignKey, HTTP_PORT: "0", IS_DEV: false}
	users := user.NewMemoryRepo()
	s := New(conf, services.NewServicesWithRepos(users, task.NewMemoryRepo()))

	ln := fasthttputil.NewInmemoryListener()
	go func() {
		_ = s.srv.Serve(ln)
	}()
	t.Cleanup(func() {
		_ = s.srv.Shutdown()
		_ = ln.Close()
	})

	client := &http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
				return ln.Dial()
			},
		},
	}

	return &testServer{client: client, users: users}
}

func (ts *testServer) do(t *testing.T, method, path, jwt string, form url.Values) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, "http://taskboard"+path, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if jwt != "" {
		req.Header.Set("Authorization", "Bearer "+jwt)
	}

	resp, err := ts.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp.StatusCode, decoded
}

func (ts *testServer) doList(t *testing.T, jwt string) (int, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, "http://taskboard/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+jwt)

	resp, err := ts.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded []map[string]any
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func (ts *testServer) signUp(t *testing.T, username, password string) string {
	t.Helper()

	status, body := ts.do(t, http.MethodPost, "/auth/sign-up", "", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, http.StatusCreated, status)
	jwt, _ := body["jwt"].(string)
	require.NotEmpty(t, jwt)
	return jwt
}

func TestSignUpLoginAndTaskFlow(t *testing.T) {
	ts := newTestServer(t)

	// Register alice and check the issued token.
	aliceJWT := ts.signUp(t, "alice1234", "Passw0rd1")
	require.True(t, token.Verify(testSignKey, aliceJWT))

	// Login must yield a token whose subject matches the registered id.
	status, body := ts.do(t, http.MethodPost, "/auth/login", "", url.Values{
		"username": {"alice1234"},
		"password": {"Passw0rd1"},
	})
	require.Equal(t, http.StatusOK, status)
	loginJWT := body["jwt"].(string)

	registered, err := ts.users.GetByUsername(context.Background(), "alice1234")
	require.NoError(t, err)
	claims := token.ExtractClaims(loginJWT)
	require.NotNil(t, claims)
	assert.EqualValues(t, registered.ID, claims["user_id"])

	// Create a task; status code 1 maps to pending.
	status, body = ts.do(t, http.MethodPost, "/tasks", loginJWT, url.Values{
		"title":  {"T1"},
		"status": {"1"},
	})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, registered.ID, body["user_id"])
	assert.EqualValues(t, 1, body["status"])
	taskID := strconv.Itoa(int(body["id"].(float64)))

	// A second participant cannot see alice's task.
	bobJWT := ts.signUp(t, "bob12345", "Passw0rd2")
	status, body = ts.do(t, http.MethodGet, "/tasks/"+taskID, bobJWT, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found.", body["message"])

	status, list := ts.doList(t, bobJWT)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list)

	// An admin can read and delete it.
	adminHash, err := user.HashPassword("Adminpass1")
	require.NoError(t, err)
	_, err = ts.users.Create(context.Background(), "adminuser1", adminHash, user.RoleAdmin)
	require.NoError(t, err)

	status, body = ts.do(t, http.MethodPost, "/auth/login", "", url.Values{
		"username": {"adminuser1"},
		"password": {"Adminpass1"},
	})
	require.Equal(t, http.StatusOK, status)
	adminJWT := body["jwt"].(string)

	status, body = ts.do(t, http.MethodGet, "/tasks/"+taskID, adminJWT, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "T1", body["title"])

	status, body = ts.do(t, http.MethodDelete, "/tasks/"+taskID, adminJWT, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "task "+taskID+" was deleted", body["message"])

	// Deleting it again fails without a crash.
	status, body = ts.do(t, http.MethodDelete, "/tasks/"+taskID, adminJWT, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "task "+taskID+" was not deleted", body["message"])
}

func TestSignUpValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		username string
		password string
		message  string
	}{
		{"short username", "short", "Passw0rd1", "Username must be between 8 and 40 characters."},
		{"short password", "alice1234", "short", "Password must be between 8 and 40 characters."},
		{"non-alnum username", "alice_1234", "Passw0rd1", "Username must only contain letters and numbers."},
		{"non-alnum password", "alice1234", "Passw0rd!", "Password must only contain letters and numbers."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ts.do(t, http.MethodPost, "/auth/sign-up", "", url.Values{
				"username": {tt.username},
				"password": {tt.password},
			})
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestSignUpConflict(t *testing.T) {
	ts := newTestServer(t)

	ts.signUp(t, "alice1234", "Passw0rd1")

	status, body := ts.do(t, http.MethodPost, "/auth/sign-up", "", url.Values{
		"username": {"alice1234"},
		"password": {"different1"},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User [alice1234] already exists!", body["message"])
}

func TestLoginDoesNotRevealWhichCredentialWasWrong(t *testing.T) {
	ts := newTestServer(t)

	ts.signUp(t, "alice1234", "Passw0rd1")

	for name, form := range map[string]url.Values{
		"wrong password": {"username": {"alice1234"}, "password": {"wrongpass1"}},
		"unknown user":   {"username": {"nobody1234"}, "password": {"Passw0rd1"}},
	} {
		t.Run(name, func(t *testing.T) {
			status, body := ts.do(t, http.MethodPost, "/auth/login", "", form)
			assert.Equal(t, http.StatusNotFound, status)
			assert.Contains(t, body["message"], "does not exist!")
		})
	}
}

func TestTasksRequireToken(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/tasks", "", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "not authorized", body["message"])

	status, body = ts.do(t, http.MethodGet, "/tasks/1", "not.a.token", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "not authorized", body["message"])
}

func TestCreateTaskValidation(t *testing.T) {
	ts := newTestServer(t)
	jwt := ts.signUp(t, "alice1234", "Passw0rd1")

	status, body := ts.do(t, http.MethodPost, "/tasks", jwt, url.Values{"description": {"no title"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields.", body["message"])

	status, body = ts.do(t, http.MethodPost, "/tasks", jwt, url.Values{"title": {"T1"}, "status": {"9"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid task status", body["message"])

	// Status defaults to pending when omitted.
	status, body = ts.do(t, http.MethodPost, "/tasks", jwt, url.Values{"title": {"T1"}})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 1, body["status"])
}

func TestUpdateTask(t *testing.T) {
	ts := newTestServer(t)
	jwt := ts.signUp(t, "alice1234", "Passw0rd1")

	status, body := ts.do(t, http.MethodPost, "/tasks", jwt, url.Values{
		"title":       {"T1"},
		"description": {"original"},
	})
	require.Equal(t, http.StatusCreated, status)
	taskID := strconv.Itoa(int(body["id"].(float64)))

	// Partial update: only the supplied field changes.
	status, body = ts.do(t, http.MethodPut, "/tasks/"+taskID, jwt, url.Values{"status": {"2"}})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["status"])
	assert.Equal(t, "T1", body["title"])
	assert.Equal(t, "original", body["description"])

	// All fields omitted is rejected.
	status, body = ts.do(t, http.MethodPut, "/tasks/"+taskID, jwt, url.Values{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request", body["message"])

	// Another participant cannot update it.
	bobJWT := ts.signUp(t, "bob12345", "Passw0rd2")
	status, body = ts.do(t, http.MethodPut, "/tasks/"+taskID, bobJWT, url.Values{"title": {"stolen"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unable to update task", body["message"])
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Unable to find the page.", body["message"])
}

func TestHealthRouteIsPublic(t *testing.T) {
	ts := newTestServer(t)

	status, _ := ts.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}
