package extract

import (
	"strings"
	"testing"
)

func TestDeriveOrderCodeDeterministic(t *testing.T) {
	a := DeriveOrderCode("05/03/2024", "Thu Bồn")
	b := DeriveOrderCode("05/03/2024", "Thu Bồn")
	if a != b {
		t.Fatalf("same pair produced different codes: %s vs %s", a, b)
	}

	if !strings.HasPrefix(a, "DH-") {
		t.Errorf("code %q missing DH- prefix", a)
	}
	if len(a) != len("DH-")+8 {
		t.Errorf("code %q has unexpected length", a)
	}
	if hexPart := strings.TrimPrefix(a, "DH-"); hexPart != strings.ToUpper(hexPart) {
		t.Errorf("code %q digest part not upper-cased", a)
	}
}

func TestDeriveOrderCodeDistinctPairs(t *testing.T) {
	codes := map[string]bool{
		DeriveOrderCode("05/03/2024", "Thu Bồn"):  true,
		DeriveOrderCode("06/03/2024", "Thu Bồn"):  true,
		DeriveOrderCode("05/03/2024", "Anh Minh"): true,
	}
	if len(codes) != 3 {
		t.Errorf("distinct pairs collided: %v", codes)
	}
}

func TestKeyIndexReuse(t *testing.T) {
	ix := NewKeyIndex()

	first := ix.Resolve("05/03/2024", "Thu Bồn")
	second := ix.Resolve("05/03/2024", "Thu Bồn")
	if first != second {
		t.Errorf("index returned different codes for same pair: %s vs %s", first, second)
	}
	if first != DeriveOrderCode("05/03/2024", "Thu Bồn") {
		t.Errorf("index code %s does not match derived code", first)
	}

	other := ix.Resolve("05/03/2024", "Anh Minh")
	if other == first {
		t.Errorf("different pairs share code %s", first)
	}
	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ix.Len())
	}
}
