package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestOf(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"bare code", Timeout, Timeout},
		{"wrapper", New(RequestFailed, "post", "", cause), RequestFailed},
		{"wrapped wrapper", fmt.Errorf("upload: %w", New(HTTPStatus, "post", "503", nil)), HTTPStatus},
		{"plain", cause, Error},
	}
	for _, c := range cases {
		if got := Of(c.err); got != c.want {
			t.Fatalf("%s: Of = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestEErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := New(ConnectFailed, "post", "bad url", cause)
	if got, want := e.Error(), "post: connect_failed: bad url: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(e, cause) {
		t.Fatal("errors.Is should see the cause")
	}
	if got := (&E{C: Timeout}).Error(); got != "timeout" {
		t.Fatalf("bare E = %q", got)
	}
}
