package types

// Node configuration, embedded per device at build time.
// Durations are whole milliseconds.

type NodeConfig struct {
	WiFi    WiFiConfig    `json:"wifi"`
	Backend BackendConfig `json:"backend"`
	Sensors SensorIDs     `json:"sensors"`
	Pins    PinConfig     `json:"pins"`
	LCD     LCDConfig     `json:"lcd"`
	Timing  TimingConfig  `json:"timing"`
}

type WiFiConfig struct {
	SSID       string `json:"ssid"`
	Passphrase string `json:"passphrase"`
	PollMs     int    `json:"poll_ms,omitempty"`
}

type BackendConfig struct {
	Host      string `json:"host"`
	Path      string `json:"path"`
	Fallback  string `json:"fallback"` // literal IP used when DNS fails
	Attempts  int    `json:"attempts,omitempty"`
	TimeoutMs int    `json:"timeout_ms,omitempty"`
}

type SensorIDs struct {
	Temperature string `json:"temperature"`
	WaterLevel  string `json:"water_level"`
}

type PinConfig struct {
	DHT  int `json:"dht"`
	Trig int `json:"trig"`
	Echo int `json:"echo"`
}

type LCDConfig struct {
	Addr uint8 `json:"addr"`
	Cols uint8 `json:"cols"`
	Rows uint8 `json:"rows"`
}

type TimingConfig struct {
	UploadIntervalMs int `json:"upload_interval_ms,omitempty"`
	LoopPaceMs       int `json:"loop_pace_ms,omitempty"`
	BetweenUploadsMs int `json:"between_uploads_ms,omitempty"`
	StatusHoldMs     int `json:"status_hold_ms,omitempty"`
	BootHoldMs       int `json:"boot_hold_ms,omitempty"`
	RetryBaseMs      int `json:"retry_base_ms,omitempty"`
	BeginRetryMs     int `json:"begin_retry_ms,omitempty"`
	EchoTimeoutMs    int `json:"echo_timeout_ms,omitempty"`
}
