package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("claims", "IAHW-AAAA-0001")
	b := Key("claims", "IAHW-AAAA-0002")
	if a == b {
		t.Errorf("expected different keys for different references")
	}
	if a != Key("claims", "IAHW-AAAA-0001") {
		t.Errorf("expected stable key")
	}
	if !strings.HasPrefix(a, "claimcheck_v1_claims_") {
		t.Errorf("expected namespaced key, got %s", a)
	}
	if strings.ContainsAny(Key("herds", "../../etc", "a/b"), "/.") {
		t.Errorf("expected key safe for file names")
	}
	if Key("x", "ab", "c") == Key("x", "a", "bc") {
		t.Errorf("expected part boundaries to matter")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Errorf("expected miss for unknown key")
	}

	value := []byte("hello")
	if err := c.Set("k", value, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value[0] = 'j'

	got, ok := c.Get("k")
	if !ok || string(got) != "hello" {
		t.Errorf("expected hello, got %q (found=%v)", got, ok)
	}
	got[0] = 'y'
	if again, _ := c.Get("k"); string(again) != "hello" {
		t.Errorf("expected stored entry unaffected by caller edits, got %q", again)
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Errorf("expected miss after delete")
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)
	_ = c.Clear()
	for _, key := range []string{"a", "b"} {
		if _, ok := c.Get(key); ok {
			t.Errorf("expected %s to be gone after clear", key)
		}
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Errorf("expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("claimcheck_v1_herds_abc", []byte(`{"id":1}`), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := c.Get("claimcheck_v1_herds_abc")
	if !ok || string(got) != `{"id":1}` {
		t.Errorf("expected stored value, got %q (found=%v)", got, ok)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected exactly one file and no temp leftovers, got %d", len(entries))
	}

	if err := c.Delete("claimcheck_v1_herds_abc"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := c.Delete("claimcheck_v1_herds_abc"); err != nil {
		t.Errorf("expected deleting a missing entry to succeed, got %v", err)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set("k", []byte("v"), time.Minute)
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Errorf("expected expired entry to miss")
	}
	if _, err := os.Stat(filepath.Join(dir, "k.cache")); !os.IsNotExist(err) {
		t.Errorf("expected expired file to be removed")
	}
}

func TestDiskCacheCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	if err := os.WriteFile(filepath.Join(dir, "k.cache"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Errorf("expected corrupt entry to miss")
	}
}

func TestLayeredCachePromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	disk := NewDiskCache(dir, time.Hour)
	_ = disk.Set("k", []byte("from disk"), 0)

	got, ok := c.Get("k")
	if !ok || string(got) != "from disk" {
		t.Fatalf("expected disk hit, got %q (found=%v)", got, ok)
	}

	_ = os.RemoveAll(dir)
	if got, ok := c.Get("k"); !ok || string(got) != "from disk" {
		t.Errorf("expected memory to hold promoted entry, got %q (found=%v)", got, ok)
	}
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	type herd struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	if err := SetJSON(c, "h", herd{ID: "h1", Name: "North"}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got herd
	if !GetJSON(c, "h", &got) {
		t.Fatalf("expected hit")
	}
	if got.Name != "North" {
		t.Errorf("expected North, got %s", got.Name)
	}

	_ = c.Set("bad", []byte("{"), 0)
	if GetJSON(c, "bad", &got) {
		t.Errorf("expected undecodable entry to miss")
	}
}

func TestNewDisabled(t *testing.T) {
	c := New(model.CacheConfig{Enabled: false})
	_ = c.Set("k", []byte("v"), 0)
	if _, ok := c.Get("k"); ok {
		t.Errorf("expected disabled cache to store nothing")
	}

	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute, DiskTTL: time.Hour, Dir: t.TempDir()}).(*LayeredCache); !ok {
		t.Errorf("expected layered cache when enabled")
	}
}
