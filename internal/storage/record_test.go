package storage

import "testing"

func TestRecordRoundTrip(t *testing.T) {
	rec := NewRecord("user:1001", "Alice Johnson", 7)
	buf := rec.Encode()
	if len(buf) != RecordSize {
		t.Fatalf("Encode() produced %d bytes, want %d", len(buf), RecordSize)
	}

	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.KeyString() != "user:1001" {
		t.Errorf("KeyString() = %q, want %q", got.KeyString(), "user:1001")
	}
	if got.ValueString() != "Alice Johnson" {
		t.Errorf("ValueString() = %q, want %q", got.ValueString(), "Alice Johnson")
	}
	if got.PageID != 7 {
		t.Errorf("PageID = %d, want 7", got.PageID)
	}
	if got.Deleted {
		t.Error("Deleted = true, want false")
	}
}

func TestRecordSetValue(t *testing.T) {
	rec := NewRecord("k", "old", 1)
	rec.SetValue("new value")
	if rec.ValueString() != "new value" {
		t.Errorf("ValueString() = %q, want %q", rec.ValueString(), "new value")
	}
}

func TestRecordTruncatesOversizedFields(t *testing.T) {
	longKey := make([]byte, MaxKeyLen*2)
	for i := range longKey {
		longKey[i] = 'a'
	}
	rec := NewRecord(string(longKey), "v", 1)
	if len(rec.KeyString()) != MaxKeyLen-1 {
		t.Errorf("KeyString() length = %d, want %d", len(rec.KeyString()), MaxKeyLen-1)
	}
}

func TestDecodeRejectsShortBuffer(t *testing.T) {
	if _, err := Decode(make([]byte, 10)); err == nil {
		t.Fatal("Decode on short buffer: want error, got nil")
	}
}
