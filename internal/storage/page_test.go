package storage

import "testing"

func TestPageWriteReadRecord(t *testing.T) {
	page := NewPage(3)
	if page.IsDirty {
		t.Fatal("NewPage: want clean, got dirty")
	}

	rec := NewRecord("product:5001", "Laptop - $1299", 3)
	page.WriteRecord(rec)
	if !page.IsDirty {
		t.Error("WriteRecord: want dirty, got clean")
	}

	got, err := page.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if got.KeyString() != "product:5001" || got.ValueString() != "Laptop - $1299" {
		t.Errorf("ReadRecord() = %+v, want matching key/value", got)
	}
}

func TestPagePaddingStaysZero(t *testing.T) {
	page := NewPage(1)
	page.WriteRecord(NewRecord("k", "v", 1))
	for i := RecordSize; i < PageSize; i++ {
		if page.Data[i] != 0 {
			t.Fatalf("Data[%d] = %d, want 0 (padding must stay zeroed)", i, page.Data[i])
		}
	}
}
