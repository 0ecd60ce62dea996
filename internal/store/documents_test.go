package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "fleetboard.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestDocuments_RoundTrip(t *testing.T) {
	st := newTestStore(t)

	if _, ok, err := st.GetDocument("missing"); err != nil || ok {
		t.Fatalf("missing document: ok=%v err=%v", ok, err)
	}

	if err := st.PutDocument("k", `{"a":1}`); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, ok, err := st.GetDocument("k")
	if err != nil || !ok || v != `{"a":1}` {
		t.Fatalf("get: %q ok=%v err=%v", v, ok, err)
	}

	// UPSERT 覆盖
	if err := st.PutDocument("k", `{"a":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = st.GetDocument("k")
	if v != `{"a":2}` {
		t.Fatalf("overwrite result: %q", v)
	}
}

func TestPutDocuments_Transactional(t *testing.T) {
	st := newTestStore(t)

	if err := st.PutDocuments(map[string]string{
		"records": "[]",
		"history": "{}",
	}); err != nil {
		t.Fatalf("put documents: %v", err)
	}

	for key, want := range map[string]string{"records": "[]", "history": "{}"} {
		v, ok, err := st.GetDocument(key)
		if err != nil || !ok || v != want {
			t.Fatalf("doc %s: %q ok=%v err=%v", key, v, ok, err)
		}
	}
}

func TestConfig(t *testing.T) {
	st := newTestStore(t)

	if v, err := st.GetConfig("join_key"); err != nil || v != "" {
		t.Fatalf("missing config: %q err=%v", v, err)
	}
	if err := st.SetConfig("join_key", "LICENSE_NO"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := st.GetConfig("join_key"); v != "LICENSE_NO" {
		t.Fatalf("get: %q", v)
	}
	if err := st.SetConfig("join_key", "Grouping"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _ := st.GetConfig("join_key"); v != "Grouping" {
		t.Fatalf("overwrite result: %q", v)
	}
}

func TestImportLogs(t *testing.T) {
	st := newTestStore(t)

	if ts, err := st.LastImportTime(); err != nil || ts != "" {
		t.Fatalf("no imports yet: %q err=%v", ts, err)
	}

	id, err := st.CreateImportLog("oos.xlsx", "oos", 120)
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	if err := st.CompleteImportLog(id, 118, "done", ""); err != nil {
		t.Fatalf("complete log: %v", err)
	}

	ts, err := st.LastImportTime()
	if err != nil || ts == "" {
		t.Fatalf("last import time: %q err=%v", ts, err)
	}
}
