package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/domain/money"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/internal/usecase/lifecycle"
	loanuc "p2p-lending-backend/internal/usecase/loan"
	offeruc "p2p-lending-backend/internal/usecase/offer"
)

var fixedNow = time.Date(2025, 1, 31, 15, 4, 5, 0, time.UTC)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func mustJSON(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// deps are the storage ports the test server is built on.
type deps struct {
	repos uow.Repos
	tx    uow.UnitOfWork
}

// newTestServer wires the real routes over deps, with Redis served by miniredis.
func newTestServer(t *testing.T, d deps) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	loans := loanuc.NewUsecase(d.repos.Users, d.repos.Loans, d.repos.Offers, d.repos.Payments, money.MustParse("3.75"), nil, nil)
	offers := offeruc.NewUsecase(d.repos.Loans, d.repos.Offers, nil, nil)
	life := lifecycle.NewUsecase(d.tx, nil, nil).WithClock(func() time.Time { return fixedNow })

	e := echo.New()
	e.Validator = NewValidator()
	RegisterRoutes(e, Routes{
		Health:         NewHandler(),
		Loans:          NewLoanHandler(loans),
		Offers:         NewOfferHandler(offers),
		Lifecycle:      NewLifecycleHandler(life),
		Users:          d.repos.Users,
		Redis:          rdb,
		IdempotencyTTL: time.Minute,
	})
	return e
}

type call struct {
	method string
	path   string
	body   any
	caller *user.User
	reqID  string // sets the idempotency headers when non-empty
}

func do(t *testing.T, e *echo.Echo, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	switch b := c.body.(type) {
	case nil:
	case string:
		body = strings.NewReader(b)
	default:
		body = mustJSON(b)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if c.caller != nil {
		req.Header.Set(middleware.HeaderUserID, c.caller.UserID)
	}
	if c.reqID != "" {
		req.Header.Set("Ax-Request-Id", c.reqID)
		req.Header.Set("Ax-Request-At", time.Now().UTC().Format(time.RFC3339))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return v
}
