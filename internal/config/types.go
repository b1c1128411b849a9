package config

import "github.com/marekvales/device_panel_go/internal/device"

// SinkConfig selects and configures the presentation sink.
type SinkConfig struct {
	Type        string `yaml:"type"`        // mqtt / memory
	Broker      string `yaml:"broker"`      // tcp://host:port
	ClientID    string `yaml:"clientId"`    // MQTT client identifier
	Username    string `yaml:"username"`    // optional auth
	Password    string `yaml:"password"`    // optional auth
	TopicPrefix string `yaml:"topicPrefix"` // leading topic segment
	Qos         byte   `yaml:"qos"`         // publish/subscribe QoS
}

// PanelServiceConfig is the top-level service configuration. The refresh
// interval is an explicit value here, not a process-wide default.
type PanelServiceConfig struct {
	RefreshRateMs int             `yaml:"RefreshRateMs"` // read-cycle period in milliseconds
	ModuleDir     string          `yaml:"ModuleDir"`     // root of module assets
	Module        string          `yaml:"Module"`        // module to load at startup
	Sink          SinkConfig      `yaml:"Sink"`
	Devices       []device.Config `yaml:"Devices"`
}
