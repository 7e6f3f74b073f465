package digest

import "testing"

func TestFileKey_Deterministic(t *testing.T) {
	d := New(nil)

	first := d.FileKey("k1")
	second := d.FileKey("k1")

	if first != second {
		t.Errorf("Digest not deterministic: %s != %s", first, second)
	}
	if len(first) != Size {
		t.Errorf("Expected %d hex chars, got %d", Size, len(first))
	}
}

func TestFileKey_DistinctKeys(t *testing.T) {
	d := New(nil)

	if d.FileKey("k1") == d.FileKey("k2") {
		t.Error("Distinct logical keys produced the same filename")
	}
}

func TestFileKey_Namespaced(t *testing.T) {
	base := New(nil)
	other := New([]byte("other-namespace"))

	if base.FileKey("k1") == other.FileKey("k1") {
		t.Error("Different digest keys produced the same filename")
	}
}

func TestFileKey_SafeFilename(t *testing.T) {
	d := New(nil)

	// Keys with path separators and case-only differences must map to
	// plain distinct hex names
	name := d.FileKey("../a/b\\c")
	for _, c := range name {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Fatalf("Non-hex character %q in filename %s", c, name)
		}
	}

	if d.FileKey("key") == d.FileKey("KEY") {
		t.Error("Case-only distinct keys collided")
	}
}
