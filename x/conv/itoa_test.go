package conv

import "testing"

func TestItoa(t *testing.T) {
	var buf [20]byte
	for _, c := range []struct {
		n    int64
		want string
	}{
		{0, "0"}, {7, "7"}, {123, "123"}, {-42, "-42"},
	} {
		if got := string(Itoa(buf[:], c.n)); got != c.want {
			t.Fatalf("Itoa(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestDeci(t *testing.T) {
	var buf [22]byte
	for _, c := range []struct {
		n    int64
		want string
	}{
		{235, "23.5"}, {0, "0.0"}, {5, "0.5"}, {-5, "-0.5"}, {-123, "-12.3"}, {1000, "100.0"},
	} {
		if got := string(Deci(buf[:], c.n)); got != c.want {
			t.Fatalf("Deci(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}
