package config

import (
	"flownix-node/errcode"
	"flownix-node/types"

	"github.com/andreyvit/tinyjson"
)

// parse decodes one embedded document. tinyjson panics on malformed input;
// the panic is turned into an invalid_config error.
func parse(device string, raw []byte) (m map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errcode.New(errcode.InvalidConfig, opLoad, "decode "+device+": "+panicText(r), nil)
		}
	}()
	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return nil, errcode.New(errcode.InvalidConfig, opLoad, "embedded config is not a JSON object", nil)
	}
	return m, nil
}

func panicText(r any) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		return v
	}
	return "malformed JSON"
}

// fields maps the keys of one JSON object to setters. Keys without a setter
// are rejected.
type fields map[string]func(path string, v any) error

func (f fields) apply(path string, v any) error {
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return badField(path, "not an object")
	}
	for k, fv := range m {
		set, ok := f[k]
		if !ok {
			return badField(join(path, k), "unknown field")
		}
		if err := set(join(path, k), fv); err != nil {
			return err
		}
	}
	return nil
}

func join(path, k string) string {
	if path == "" {
		return k
	}
	return path + "." + k
}

func badField(path, msg string) error {
	return errcode.New(errcode.InvalidConfig, opLoad, path+": "+msg, nil)
}

func str(dst *string) func(string, any) error {
	return func(path string, v any) error {
		s, ok := v.(string)
		if !ok {
			return badField(path, "not a string")
		}
		*dst = s
		return nil
	}
}

func num(dst *int) func(string, any) error {
	return func(path string, v any) error {
		var n int
		switch x := v.(type) {
		case float64:
			if x != float64(int(x)) {
				return badField(path, "not an integer")
			}
			n = int(x)
		case int:
			n = x
		case int64:
			n = int(x)
		default:
			return badField(path, "not a number")
		}
		*dst = n
		return nil
	}
}

func byte8(dst *uint8) func(string, any) error {
	return func(path string, v any) error {
		var n int
		if err := num(&n)(path, v); err != nil {
			return err
		}
		if n < 0 || n > 255 {
			return badField(path, "out of range")
		}
		*dst = uint8(n)
		return nil
	}
}

// decodeNode fills c from a parsed document.
func decodeNode(m map[string]any, c *types.NodeConfig) error {
	section := func(f fields) func(string, any) error { return f.apply }
	root := fields{
		"wifi": section(fields{
			"ssid":       str(&c.WiFi.SSID),
			"passphrase": str(&c.WiFi.Passphrase),
			"poll_ms":    num(&c.WiFi.PollMs),
		}),
		"backend": section(fields{
			"host":       str(&c.Backend.Host),
			"path":       str(&c.Backend.Path),
			"fallback":   str(&c.Backend.Fallback),
			"attempts":   num(&c.Backend.Attempts),
			"timeout_ms": num(&c.Backend.TimeoutMs),
		}),
		"sensors": section(fields{
			"temperature": str(&c.Sensors.Temperature),
			"water_level": str(&c.Sensors.WaterLevel),
		}),
		"pins": section(fields{
			"dht":  num(&c.Pins.DHT),
			"trig": num(&c.Pins.Trig),
			"echo": num(&c.Pins.Echo),
		}),
		"lcd": section(fields{
			"addr": byte8(&c.LCD.Addr),
			"cols": byte8(&c.LCD.Cols),
			"rows": byte8(&c.LCD.Rows),
		}),
		"timing": section(fields{
			"upload_interval_ms": num(&c.Timing.UploadIntervalMs),
			"loop_pace_ms":       num(&c.Timing.LoopPaceMs),
			"between_uploads_ms": num(&c.Timing.BetweenUploadsMs),
			"status_hold_ms":     num(&c.Timing.StatusHoldMs),
			"boot_hold_ms":       num(&c.Timing.BootHoldMs),
			"retry_base_ms":      num(&c.Timing.RetryBaseMs),
			"begin_retry_ms":     num(&c.Timing.BeginRetryMs),
			"echo_timeout_ms":    num(&c.Timing.EchoTimeoutMs),
		}),
	}
	return root.apply("", m)
}
