package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelzone/backend/internal/auth"
	"github.com/reelzone/backend/internal/catalog"
	"github.com/reelzone/backend/internal/favorites"
	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/notifications"
)

const (
	testAdminEmail    = "curator@reelzone.test"
	testAdminPassword = "letmein"
)

type testServer struct {
	mux       *http.ServeMux
	durable   *kv.MemoryStore
	session   *kv.MemoryStore
	catalog   *catalog.Repository
	featured  *catalog.Featured
	log       *notifications.Log
	favorites *favorites.Set
	admin     *auth.AdminTrack
	users     *auth.UserTrack
}

func newTestServer(t *testing.T, configure ...func(*Dependencies)) *testServer {
	t.Helper()

	hash, err := auth.HashSecret(testAdminPassword, bcrypt.MinCost)
	require.NoError(t, err)

	s := &testServer{durable: kv.NewMemoryStore(), session: kv.NewMemoryStore()}
	s.log = notifications.NewLog(s.durable)
	s.catalog = catalog.NewRepository(s.durable, s.log)
	s.featured = catalog.NewFeatured(s.catalog)
	s.favorites = favorites.NewSet(s.durable)
	s.admin = auth.NewAdminTrack(s.session, auth.AdminCredentials{Email: testAdminEmail, PasswordHash: hash}, 0)
	s.users = auth.NewUserTrack(s.durable, s.session, 0, auth.WithHashCost(bcrypt.MinCost))

	deps := Dependencies{
		Profile:       "test",
		Durable:       s.durable,
		Catalog:       s.catalog,
		Featured:      s.featured,
		Notifications: s.log,
		Favorites:     s.favorites,
		Admin:         s.admin,
		Users:         s.users,
	}
	for _, fn := range configure {
		fn(&deps)
	}

	s.mux = http.NewServeMux()
	RegisterRoutes(s.mux, deps)
	return s
}

// do sends a request through the mux. headers are key, value pairs.
func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

// asAdmin sends a request carrying a fresh admin session token.
func (s *testServer) asAdmin(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, method, path, body, "Authorization", "Bearer "+s.adminToken(t))
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	if session, ok := s.admin.Session(t.Context()); ok {
		return session.Token
	}
	rec := s.do(t, http.MethodPost, "/api/v1/admin/login", `{"email":"`+testAdminEmail+`","password":"`+testAdminPassword+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body adminSessionResponse
	decodeBody(t, rec, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decodeBody(t, rec, &body)
	msg, _ := body["error"].(string)
	return msg
}
