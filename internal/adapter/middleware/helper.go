package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"p2p-lending-backend/pkg/id"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"
)

var reUUID = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)

// requestMeta is what a retried request must repeat to be recognised.
type requestMeta struct {
	RequestID string
	RequestAt time.Time
	UserID    string
}

func readRequestMeta(h http.Header, now time.Time, skew time.Duration) (requestMeta, error) {
	var m requestMeta

	m.RequestID = strings.TrimSpace(h.Get(HeaderRequestID))
	switch {
	case m.RequestID == "":
		return m, errors.New("missing " + HeaderRequestID)
	case !validRequestID(m.RequestID):
		return m, errors.New("invalid " + HeaderRequestID + " format")
	}

	at, err := parseRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return m, err
	}
	if at.Before(now.Add(-skew)) || at.After(now.Add(skew)) {
		return m, errors.New(HeaderRequestAt + " too skewed")
	}
	m.RequestAt = at

	m.UserID = strings.TrimSpace(h.Get(HeaderUserID))
	switch {
	case m.UserID == "":
		return m, errors.New("missing " + HeaderUserID)
	case !id.Valid(m.UserID):
		return m, errors.New("invalid " + HeaderUserID)
	}
	return m, nil
}

// validRequestID accepts a lowercase UUID (v1-v5) or a 32-hex public id.
func validRequestID(s string) bool {
	return reUUID.MatchString(s) || id.Valid(s)
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339(Nano)
// carrying an explicit zone. Zoneless timestamps are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	// RFC3339Nano also parses values without fractional seconds.
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}

func replayKey(method, path, userID, requestID string) string {
	return "idemp:ax:" + strings.ToLower(method) + ":" + path + ":" + userID + ":" + requestID
}

func hashBody(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
