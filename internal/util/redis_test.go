package util

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) *RedisClient {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewRedisClientFromAddr(mr.Addr())
	if err != nil {
		t.Fatalf("connecting to miniredis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisSetGet(t *testing.T) {
	client := newTestRedis(t)

	if err := client.Set("greeting", "hello", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, err := client.Get("greeting")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != "hello" {
		t.Errorf("Get = %q, want hello", val)
	}
}

func TestRedisGetMissingKey(t *testing.T) {
	client := newTestRedis(t)

	if _, err := client.Get("nope"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestRedisSetMarshalsStructs(t *testing.T) {
	client := newTestRedis(t)

	type payload struct {
		Name string `json:"name"`
	}
	if err := client.Set("obj", payload{Name: "devhoc"}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, err := client.Get("obj")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != `{"name":"devhoc"}` {
		t.Errorf("Get = %q", val)
	}
}

func TestRedisDelete(t *testing.T) {
	client := newTestRedis(t)

	client.Set("key", "value", time.Minute)
	if err := client.Delete("key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	exists, err := client.Exists("key")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("key still exists after delete")
	}
}

func TestRedisDeletePattern(t *testing.T) {
	client := newTestRedis(t)

	client.Set("comment:post:1", "a", time.Minute)
	client.Set("comment:post:2", "b", time.Minute)
	client.Set("post:1", "c", time.Minute)

	if err := client.DeletePattern("comment:post:*"); err != nil {
		t.Fatalf("DeletePattern: %v", err)
	}

	if exists, _ := client.Exists("comment:post:1"); exists {
		t.Error("comment:post:1 survived pattern delete")
	}
	if exists, _ := client.Exists("comment:post:2"); exists {
		t.Error("comment:post:2 survived pattern delete")
	}
	if exists, _ := client.Exists("post:1"); !exists {
		t.Error("post:1 should not be touched by pattern delete")
	}
}
