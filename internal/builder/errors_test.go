package builder

import "testing"

func TestClampChunk(t *testing.T) {
	cases := []struct{ size, max, want uint64 }{
		{0, 100, 1},
		{50, 100, 50},
		{500, 100, 100},
	}
	for _, c := range cases {
		if got := clampChunk(c.size, c.max); got != c.want {
			t.Errorf("clampChunk(%d, %d) = %d, want %d", c.size, c.max, got, c.want)
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := invalidRange("range")
	if err.Error() == "" {
		t.Fatal("expected a non-empty error message")
	}
}
