package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_SelectsDB(t *testing.T) {
	s := miniredis.RunT(t)

	c, err := OpenRedis(context.Background(), s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DialTimeout; got != pingTimeout {
		t.Fatalf("DialTimeout = %v, want %v", got, pingTimeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Set(ctx, "idemp:probe", "1", time.Minute).Err(); err != nil {
		t.Fatalf("SET: %v", err)
	}
	if !s.DB(2).Exists("idemp:probe") || s.DB(0).Exists("idemp:probe") {
		t.Fatalf("key must land in db 2 only")
	}
}

func TestOpenRedis_Unreachable(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	c, err := OpenRedis(context.Background(), addr, 0)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if c != nil {
		t.Fatalf("client must be nil on failure")
	}
	if !strings.Contains(err.Error(), addr) {
		t.Fatalf("error should name the address: %v", err)
	}
}
