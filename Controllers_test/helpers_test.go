package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/tableorder/database"
	"github.com/yeremiapane/tableorder/kds"
	"github.com/yeremiapane/tableorder/router"
	"github.com/yeremiapane/tableorder/services"
	"github.com/yeremiapane/tableorder/testhelpers"
	"github.com/yeremiapane/tableorder/utils"
)

var jwtSecret = []byte("controllers-test-secret")

type testServer struct {
	router *gin.Engine
	fx     *testhelpers.Fixture
	clock  *services.ManualClock
	hub    *kds.Hub
}

func newTestServer(t *testing.T, tables int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error")

	db := testhelpers.NewDB(t)
	s := &testServer{
		fx:    testhelpers.Seed(t, db, tables),
		clock: services.NewManualClock(time.Date(2024, 5, 17, 19, 0, 0, 0, time.UTC)),
		hub:   kds.NewHub(0),
	}
	t.Cleanup(s.hub.Close)

	tableRepo := database.NewTableRepo(db)
	menuRepo := database.NewMenuRepo(db)
	sessions := services.NewSessionService(tableRepo, s.clock, s.hub)
	s.router = router.SetupRouter(router.Deps{
		Sessions:  sessions,
		Orders:    services.NewOrderService(database.NewOrderRepo(db), menuRepo, sessions, s.clock, s.hub),
		Menu:      services.NewMenuService(menuRepo, tableRepo),
		Hub:       s.hub,
		JWTSecret: jwtSecret,
	})
	return s
}

func staffToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(jwtSecret, "Sam", role, time.Hour)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// do sends body as JSON and decodes the response envelope.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode(t *testing.T, raw json.RawMessage, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dst))
}
