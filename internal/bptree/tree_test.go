package bptree

import (
	"fmt"
	"sort"
	"testing"
)

func TestSearchMissOnEmptyTree(t *testing.T) {
	tr := New()
	if got := tr.Search("anything"); got != 0 {
		t.Fatalf("Search on empty tree = %d, want 0", got)
	}
}

func TestInsertAndSearch(t *testing.T) {
	tr := New()
	tr.Insert("user:1001", 1)
	tr.Insert("user:1002", 2)
	tr.Insert("product:5001", 3)

	cases := map[string]uint64{
		"user:1001":    1,
		"user:1002":    2,
		"product:5001": 3,
		"user:9999":    0,
	}
	for key, want := range cases {
		if got := tr.Search(key); got != want {
			t.Errorf("Search(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestInsertOverwritesExistingKey(t *testing.T) {
	tr := New()
	tr.Insert("k", 1)
	tr.Insert("k", 2)
	if got := tr.Search("k"); got != 2 {
		t.Fatalf("Search(\"k\") = %d, want 2 (overwrite)", got)
	}
}

func TestRemoveTombstonesWithoutDroppingStructuralKey(t *testing.T) {
	tr := New()
	tr.Insert("k", 1)
	tr.Remove("k")
	if got := tr.Search("k"); got != 0 {
		t.Fatalf("Search after Remove = %d, want 0", got)
	}
	found := false
	for _, k := range tr.EnumerateKeys() {
		if k == "k" {
			found = true
		}
	}
	if !found {
		t.Fatal("EnumerateKeys: tombstoned key should remain structurally")
	}
}

// TestManyInsertsStayFindable drives enough inserts to force leaf and
// internal splits (Order=64) and checks every inserted key is still
// findable afterward — the property spec.md §9 asks the descent rule to
// be verified against, instead of porting the original formula.
func TestManyInsertsStayFindable(t *testing.T) {
	tr := New()
	const n = 5000
	for i := 0; i < n; i++ {
		tr.Insert(fmt.Sprintf("bench:%05d", i), uint64(i+1))
	}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("bench:%05d", i)
		if got := tr.Search(key); got != uint64(i+1) {
			t.Fatalf("Search(%q) = %d, want %d", key, got, i+1)
		}
	}
}

func TestEnumerateKeysAscendingOrder(t *testing.T) {
	tr := New()
	keys := []string{"d", "b", "a", "c", "e"}
	for i, k := range keys {
		tr.Insert(k, uint64(i+1))
	}
	got := tr.EnumerateKeys()
	if !sort.StringsAreSorted(got) {
		t.Fatalf("EnumerateKeys() = %v, not ascending", got)
	}
	if len(got) != len(keys) {
		t.Fatalf("EnumerateKeys() returned %d keys, want %d", len(got), len(keys))
	}
}

func TestEnumerateKeysAfterSplitsMatchesInsertedSet(t *testing.T) {
	tr := New()
	const n = 1000
	want := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		k := fmt.Sprintf("k:%04d", i)
		tr.Insert(k, uint64(i+1))
		want[k] = true
	}
	got := tr.EnumerateKeys()
	if len(got) != n {
		t.Fatalf("EnumerateKeys() returned %d keys, want %d", len(got), n)
	}
	if !sort.StringsAreSorted(got) {
		t.Fatal("EnumerateKeys() not in ascending order after splits")
	}
	for _, k := range got {
		if !want[k] {
			t.Fatalf("EnumerateKeys() produced unexpected key %q", k)
		}
		delete(want, k)
	}
	if len(want) != 0 {
		t.Fatalf("EnumerateKeys() missing %d inserted keys", len(want))
	}
}
