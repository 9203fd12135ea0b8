package types

import "testing"

func TestJSONDocumentValueAndScan(t *testing.T) {
	doc, err := NewJSONDocument(map[string]any{"step": 2})
	if err != nil {
		t.Fatalf("NewJSONDocument() error = %v", err)
	}
	val, err := doc.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	var scanned JSONDocument
	if err := scanned.Scan([]byte(val.(string))); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	var decoded struct {
		Step int `json:"step"`
	}
	if err := scanned.Decode(&decoded); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Step != 2 {
		t.Fatalf("expected step 2, got %d", decoded.Step)
	}
}

func TestJSONDocumentEmptyAndInvalid(t *testing.T) {
	val, err := JSONDocument(nil).Value()
	if err != nil || val != "{}" {
		t.Fatalf("expected empty object, got %v err=%v", val, err)
	}
	if _, err := JSONDocument(`{broken`).Value(); err == nil {
		t.Fatalf("expected invalid payload error")
	}
	var doc JSONDocument
	if err := doc.Scan(42); err == nil {
		t.Fatalf("expected unsupported scan type error")
	}
	if err := doc.Scan(nil); err != nil || doc != nil {
		t.Fatalf("expected nil document after nil scan")
	}
}
