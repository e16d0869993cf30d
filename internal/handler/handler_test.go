package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vocabuilder/api/internal/auth"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/testutil"
	"github.com/vocabuilder/api/internal/validator"
	"gorm.io/gorm"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLanguages(t, "en", "de", "fr", "es")
}

func newTestServerWithLanguages(t *testing.T, codes ...string) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	router, err := NewRouter(RouterConfig{
		DB:          db,
		Languages:   validator.NewLanguageValidator(codes...),
		JWTSecret:   testSecret,
		AdminEmails: []string{"boss@example.com"},
		FrontendURL: "http://frontend.test",
	})
	require.NoError(t, err)

	return &testServer{t: t, db: db, router: router}
}

func (s *testServer) user(username string) (*model.User, string) {
	s.t.Helper()
	user := testutil.CreateUser(s.t, s.db, username)
	return user, s.token(user)
}

func (s *testServer) admin(username string) (*model.User, string) {
	s.t.Helper()
	user := testutil.CreateUser(s.t, s.db, username)
	require.NoError(s.t, s.db.Model(user).Update("role", model.RoleAdmin).Error)
	user.Role = model.RoleAdmin
	return user, s.token(user)
}

func (s *testServer) token(user *model.User) string {
	s.t.Helper()
	token, err := auth.GenerateAccessToken(user, testSecret)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	decode(t, w, &body)
	require.False(t, body.Success)
	return body.Message
}
