package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/metinatakli/seating-session/api"
	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/metinatakli/seating-session/internal/mocks"
	"github.com/metinatakli/seating-session/internal/session"
	"github.com/metinatakli/seating-session/internal/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

var (
	testSeatA1 = api.Seat{Id: "A1", Label: "A-1", Category: "Stalls", Price: decimal.NewFromInt(25)}
	testSeatA2 = api.Seat{Id: "A2", Label: "A-2", Category: "Stalls", Price: decimal.NewFromInt(30)}
	testSeatB1 = api.Seat{Id: "B1", Label: "B-1", Category: "Balcony", Price: decimal.NewFromInt(15)}
)

func newTestApplication(opts ...func(*Application)) *Application {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	metrics, err := newMetrics()
	if err != nil {
		panic(err)
	}

	app := &Application{
		config: Config{
			Env:                "test",
			EventKey:           "concert-2025",
			Currency:           "USD",
			Locale:             "en-US",
			Selection:          domain.SelectionRules{MinSeats: 1, MaxSeats: 4},
			HoldTTL:            10 * time.Minute,
			SessionIdleTimeout: time.Hour,
		},
		validator:      validator.NewValidator(),
		logger:         logger,
		sessionManager: scs.New(),
		locale:         language.AmericanEnglish,
		metrics:        metrics,
		holds:          &mocks.MockSeatLockingHoldService{},
		checkout:       &mocks.MockCheckoutService{},
	}

	for _, opt := range opts {
		opt(app)
	}

	app.sessions = session.NewRegistry(app.config.Currency, session.Dependencies{
		Holds:    app.holds,
		Checkout: app.checkout,
		Rules:    app.config.Selection,
		Logger:   logger,
	})

	return app
}

// testClient sends requests through the full router and keeps the session
// cookie between them, like a browser would.
type testClient struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newTestClient(t *testing.T, app *Application) *testClient {
	return &testClient{t: t, handler: app.Routes()}
}

// do sends body as JSON. A string body is sent verbatim.
func (c *testClient) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			c.t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	for _, cookie := range c.cookies {
		r.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, r)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}

	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var resp T
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return resp
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
