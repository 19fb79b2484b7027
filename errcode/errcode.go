package errcode

// Code is a stable, log-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Timeout       Code = "timeout"
	InvalidConfig Code = "invalid_config"

	// Upload path.
	ConnectFailed Code = "connect_failed" // request could not be started
	RequestFailed Code = "request_failed" // started, no HTTP status received
	HTTPStatus    Code = "http_status"    // server answered outside 2xx

	// Peripherals.
	SensorRead  Code = "sensor_read"
	Unsupported Code = "unsupported"
	UnknownPin  Code = "unknown_pin"
	UnknownBus  Code = "unknown_bus"

	// Network.
	LinkDown      Code = "link_down"
	ResolveFailed Code = "resolve_failed"

	Error Code = "error" // generic fallback
)

// E keeps context and a cause alongside a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// New builds an *E.
func New(c Code, op, msg string, cause error) *E {
	return &E{C: c, Op: op, Msg: msg, Err: cause}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		if inner := u.Unwrap(); inner != nil {
			return Of(inner)
		}
	}
	return Error
}
