package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/install"
	"github.com/ankushthakur2007/sqp/internal/repository"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/ankushthakur2007/sqp/internal/settings"
	"github.com/ankushthakur2007/sqp/internal/testutil"
	"github.com/ankushthakur2007/sqp/internal/thresholds"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestServer(t *testing.T, standalone bool) *Server {
	t.Helper()
	repo := repository.NewSQLiteReadingRepo(testutil.NewTestDB(t))
	ctrl := thresholds.NewController(settings.NewStore(t.TempDir(), nil), nil)
	ctrl.Load()
	return New(service.NewReadingService(repo), ctrl, install.New(standalone, nil), service.NewMetrics(), nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRouter_Endpoints(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()

	t.Run("websocket endpoint answers", func(t *testing.T) {
		// no upgrade headers, so the handshake is refused
		w := do(t, h, http.MethodGet, "/ws", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("metrics endpoint answers", func(t *testing.T) {
		do(t, h, http.MethodGet, "/api/version", "")
		w := do(t, h, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `sqp_http_requests_total{code="200",method="GET"}`)
	})

	t.Run("version", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/version", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, "dev", decode[map[string]string](t, w)["version"])
	})

	t.Run("unknown route", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDays_SaveAndReadBack(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()

	w := do(t, h, http.MethodPut, "/api/days/2025-03-05",
		`{"production": 4500, "quality": 80, "safetyStatus": "lost_time"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decode[DayResponse](t, w)
	assert.Equal(t, "2025-03-05", saved.Date)
	require.NotNil(t, saved.Reading.Safety)
	assert.Equal(t, domain.SafetyLostTime, *saved.Reading.Safety)

	w = do(t, h, http.MethodGet, "/api/days/2025-03-05", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[DayResponse](t, w)
	assert.Equal(t, 4500.0, *got.Reading.Production)
	assert.Equal(t, 80.0, *got.Reading.Quality)
	assert.NotNil(t, got.UpdatedAt)

	w = do(t, h, http.MethodGet, "/api/months/2025/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[service.MonthView](t, w)
	assert.Equal(t, "March 2025", view.Title)
	assert.Equal(t, 31, view.DaysInMonth)
	require.Len(t, view.Days, 31)
	day5 := view.Days[4]
	assert.Equal(t, domain.StatusGood, day5.Status.Production)
	assert.Equal(t, domain.StatusAlert, day5.Status.Quality)
	assert.Equal(t, domain.StatusAlert, day5.Status.Safety)
	assert.Equal(t, domain.StatusNoData, view.Days[5].Status.Production)
	assert.NotEmpty(t, view.Shapes["S"])
	assert.Len(t, view.Shapes[service.ShapeCross], 31)
}

func TestDays_EmptyBodyClears(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/days/2025-03-05", `{"quality": 97}`).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/days/2025-03-05", `{}`).Code)

	w := do(t, h, http.MethodGet, "/api/days/2025-03-05", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "2025-03-05")
}

func TestDays_RejectsBadInput(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"bad date", http.MethodGet, "/api/days/2025-13-01", ""},
		{"bad put date", http.MethodPut, "/api/days/yesterday", `{}`},
		{"bad safety", http.MethodPut, "/api/days/2025-03-05", `{"safetyStatus": "fine"}`},
		{"negative production", http.MethodPut, "/api/days/2025-03-05", `{"production": -1}`},
		{"unknown field", http.MethodPut, "/api/days/2025-03-05", `{"output": 1}`},
		{"not json", http.MethodPut, "/api/days/2025-03-05", `4500`},
		{"month 13", http.MethodGet, "/api/months/2025/13", ""},
		{"month 0", http.MethodGet, "/api/months/2025/0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestThresholds_GetAndPatch(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()

	w := do(t, h, http.MethodGet, "/api/thresholds", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.DefaultThresholds(), decode[domain.Thresholds](t, w))

	w = do(t, h, http.MethodPatch, "/api/thresholds", `{"productionGood": 5000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 5000.0, decode[domain.Thresholds](t, w).ProductionGood)
	assert.Equal(t, 5000.0, s.Thresholds.Current().ProductionGood)

	// the new cutoff applies to the next month read
	do(t, h, http.MethodPut, "/api/days/2025-03-05", `{"production": 4500}`)
	view := decode[service.MonthView](t, do(t, h, http.MethodGet, "/api/months/2025/03", ""))
	assert.Equal(t, domain.StatusWarning, view.Days[4].Status.Production)

	t.Run("out of range", func(t *testing.T) {
		w := do(t, h, http.MethodPatch, "/api/thresholds", `{"qualityGood": 150}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 95.0, s.Thresholds.Current().QualityGood)
	})

	t.Run("unknown mode", func(t *testing.T) {
		w := do(t, h, http.MethodPatch, "/api/thresholds", `{"mode": "relative"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("target mode uses percent ranges", func(t *testing.T) {
		w := do(t, h, http.MethodPatch, "/api/thresholds",
			`{"mode": "target", "productionTarget": 5000, "productionGood": 95, "productionAlert": 85}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		view := decode[service.MonthView](t, do(t, h, http.MethodGet, "/api/months/2025/3", ""))
		assert.Equal(t, domain.StatusWarning, view.Days[4].Status.Production)
	})
}

func TestInstall_OfferAndTrigger(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()

	state := decode[InstallResponse](t, do(t, h, http.MethodGet, "/api/install", ""))
	assert.False(t, state.Available)
	assert.False(t, state.Standalone)

	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/api/install", "").Code)

	state = decode[InstallResponse](t, do(t, h, http.MethodPost, "/api/install/offer", ""))
	assert.True(t, state.Available)

	// nobody is connected to show the prompt; it is consumed anyway
	assert.Equal(t, http.StatusBadGateway, do(t, h, http.MethodPost, "/api/install", "").Code)
	assert.False(t, decode[InstallResponse](t, do(t, h, http.MethodGet, "/api/install", "")).Available)
}

func TestInstall_Standalone(t *testing.T) {
	s := newTestServer(t, true)
	h := s.Router()

	state := decode[InstallResponse](t, do(t, h, http.MethodPost, "/api/install/offer", ""))
	assert.False(t, state.Available)
	assert.True(t, state.Standalone)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/api/install", "").Code)
}

func TestRun_PushesEventsAndShutsDown(t *testing.T) {
	s := newTestServer(t, false)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.Hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	h := s.Router()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/days/2025-03-05", `{"production": 4500}`).Code)
	do(t, h, http.MethodPatch, "/api/thresholds", `{"qualityGood": 96}`)
	do(t, h, http.MethodPost, "/api/install/offer", "")
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/install", "").Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got []Event
	for range 3 {
		var e Event
		require.NoError(t, conn.ReadJSON(&e))
		got = append(got, e)
	}
	assert.Equal(t, []Event{
		{Type: EventSaved, Date: "2025-03-05"},
		{Type: EventThresholds},
		{Type: EventInstall},
	}, got)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// the server says goodbye with a close frame
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
