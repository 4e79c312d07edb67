package privilege

import "testing"

func TestIsElevated(t *testing.T) {
	restore := SetEuidForTest(0)
	defer restore()
	if !IsElevated() {
		t.Error("euid 0 should be elevated")
	}

	restore2 := SetEuidForTest(1000)
	defer restore2()
	if IsElevated() {
		t.Error("euid 1000 should not be elevated")
	}
}
