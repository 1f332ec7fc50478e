package storage

import (
	"path/filepath"
	"slices"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() reported Changed = true")
	}
	if result.Version != 1 {
		t.Errorf("Version = %d, want 1", result.Version)
	}
	if result.Dirty {
		t.Error("Dirty = true, want false")
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles", "main", "state.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	_ = db.Close()
}

func TestGetMissingKey(t *testing.T) {
	db := testDB(t)

	v, ok, err := db.Get("token")
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != "" {
		t.Errorf("Get(token) = %q, %v; want \"\", false", v, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	db := testDB(t)

	if err := db.Set("token", "t1"); err != nil {
		t.Fatal(err)
	}
	if err := db.Set("token", "t2"); err != nil {
		t.Fatal(err)
	}

	v, ok, err := db.Get("token")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != "t2" {
		t.Errorf("Get(token) = %q, %v; want t2, true", v, ok)
	}
}

func TestSetAllWritesEveryEntry(t *testing.T) {
	db := testDB(t)

	if err := db.SetAll(map[string]string{"token": "t1", "user": `{"id":1}`}); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}
	keys, err := db.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(keys, []string{"token", "user"}) {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestSetAllIsAtomic(t *testing.T) {
	db := testDB(t)
	if err := db.Set("user", "old"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`
		CREATE TRIGGER reject_token BEFORE INSERT ON kv
		WHEN NEW.key = 'token'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatal(err)
	}

	if err := db.SetAll(map[string]string{"user": "new", "token": "t1"}); err == nil {
		t.Fatal("SetAll() error = nil, want trigger failure")
	}
	if v, _, _ := db.Get("user"); v != "old" {
		t.Errorf("Get(user) = %q, want old", v)
	}
	if _, ok, _ := db.Get("token"); ok {
		t.Error("token written despite failure")
	}
}

func TestDeleteRemovesAllKeys(t *testing.T) {
	db := testDB(t)

	for k, v := range map[string]string{"token": "t1", "user": `{"id":1}`, "other": "x"} {
		if err := db.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}

	if err := db.Delete("token", "user", "missing"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	keys, err := db.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(keys, []string{"other"}) {
		t.Errorf("Keys() = %v, want [other]", keys)
	}
}
