package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestResultList_Value_NilStoresEmptyArray(t *testing.T) {
	var rl ResultList
	v, err := rl.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	s, ok := v.(string)
	if !ok {
		t.Fatalf("expected string driver value, got %T", v)
	}
	if s != "[]" {
		t.Fatalf("nil list must store as empty array, got %q", s)
	}
}

func TestResultList_Value_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := ResultList{
		{ID: "c1", User: "u1", Username: "Jane Doe", TemplateID: "t1", Comment: ClickComment, UpdatedAt: now},
	}
	v, err := rl.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	s := v.(string)
	if !strings.Contains(s, `"templateId":"t1"`) || !strings.Contains(s, `"updatedAt"`) {
		t.Fatalf("unexpected JSON keys: %s", s)
	}

	var back ResultList
	if err := back.Scan(s); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(back) != 1 || back[0].ID != "c1" || back[0].Comment != ClickComment {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if !back[0].UpdatedAt.Equal(now) {
		t.Fatalf("timestamp mismatch: %v", back[0].UpdatedAt)
	}
}

func TestResultList_Scan_EdgeCases(t *testing.T) {
	var rl ResultList
	if err := rl.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if rl == nil || len(rl) != 0 {
		t.Fatalf("NULL must scan to empty list, got %v", rl)
	}

	if err := rl.Scan(""); err != nil {
		t.Fatalf("Scan(empty string): %v", err)
	}
	if len(rl) != 0 {
		t.Fatalf("empty value must scan to empty list, got %v", rl)
	}

	if err := rl.Scan([]byte(`[{"id":"x"}]`)); err != nil {
		t.Fatalf("Scan([]byte): %v", err)
	}
	if len(rl) != 1 || rl[0].ID != "x" {
		t.Fatalf("byte scan mismatch: %+v", rl)
	}

	if err := rl.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported source type")
	}
}

func TestResult_JSONFieldNames(t *testing.T) {
	b, err := json.Marshal(Result{ID: "i", User: "u", TemplateID: "t"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"id"`, `"user"`, `"username"`, `"templateId"`, `"comment"`, `"updatedAt"`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("missing key %s in %s", key, b)
		}
	}
}

func TestGroup_JSONHidesVersion(t *testing.T) {
	b, err := json.Marshal(Group{ID: "g1", Version: 7})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "version") {
		t.Fatalf("version counter must not leak into API payloads: %s", b)
	}
	if !strings.Contains(string(b), `"results"`) {
		t.Fatalf("results must always be present: %s", b)
	}
}
