package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// HeaderReplayed marks a response served from the idempotency store.
	HeaderReplayed = "Ax-Idempotent-Replay"

	reserveTTL   = 60 * time.Second
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// capturingWriter tees the response so it can be stored for replay.
type capturingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *capturingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware makes mutating requests safe to retry. A request is
// identified by method, path, Ax-User-Id and Ax-Request-Id; a retry with the
// same body gets the recorded response, a different body is a 409. Server
// errors are not recorded, so the client may retry them.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	store := &replayStore{rdb: rdb, lockTTL: reserveTTL, ttl: ttl}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			now := time.Now().UTC()
			meta, err := readRequestMeta(req.Header, now, maxClockSkew)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			key := replayKey(req.Method, req.URL.Path, meta.UserID, meta.RequestID)
			rec := record{
				Pending:   true,
				BodyHash:  hashBody(body),
				RequestAt: meta.RequestAt.UnixMilli(),
				StoredAt:  now,
			}

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			fresh, err := store.reserve(ctx, key, rec)
			if err != nil {
				slog.WarnContext(ctx, "idempotency: reserve failed", "key", key, "err", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !fresh {
				return replay(ctx, c, store, key, rec.BodyHash)
			}

			w := &capturingWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may be gone by now
			saveCtx, cancelSave := context.WithTimeout(context.Background(), storeTimeout)
			defer cancelSave()
			if w.status >= http.StatusInternalServerError {
				if err := store.release(saveCtx, key); err != nil {
					slog.WarnContext(saveCtx, "idempotency: release failed", "key", key, "err", err)
				}
				return nil
			}
			rec.Pending = false
			rec.Status = w.status
			rec.Body = w.body.Bytes()
			rec.StoredAt = time.Now().UTC()
			if err := store.commit(saveCtx, key, rec); err != nil {
				slog.WarnContext(saveCtx, "idempotency: commit failed", "key", key, "err", err)
			}
			return nil
		}
	}
}

func replay(ctx context.Context, c echo.Context, store *replayStore, key, bodyHash string) error {
	cur, err := store.get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "idempotency: load failed", "key", key, "err", err)
		}
		return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
	}
	if cur.BodyHash != bodyHash {
		return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
	}
	if cur.Pending || cur.Status == 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
	}
	c.Response().Header().Set(HeaderReplayed, "true")
	return c.Blob(cur.Status, echo.MIMEApplicationJSON, cur.Body)
}
