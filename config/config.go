package config

/*------------------------------------------------------------------
 *
 * Purpose: Startup configuration: a YAML document merged with command
 *          line overrides. Grounded on deviceid.go's yaml.v3 unmarshal
 *          and cmd/direwolf/main.go's pflag registration block.
 *
 *------------------------------------------------------------------*/

import (
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the full set of startup knobs for a radioclockd instance.
type Config struct {
	Protocol       string `yaml:"protocol"`        // "dcf77" or "msf"
	AudioDevice    string `yaml:"audio_device"`    // portaudio input device name, "" for default
	GPIOChip       string `yaml:"gpio_chip"`       // e.g. "/dev/gpiochip0", "" to disable
	GPIOLine       int    `yaml:"gpio_line"`       // carrier-detect input line offset
	EEPROMPath     string `yaml:"eeprom_path"`     // persistence file backing the calibration record
	NMEADevice     string `yaml:"nmea_device"`     // non-empty enables the NMEA pty emitter, "" to disable; no symlink is created
	DiscoveryName  string `yaml:"discovery_name"`  // mDNS/DNS-SD instance name, "" to disable
	TunerDevice    string `yaml:"tuner_device"`    // goHamlib rig device path; radioclockd does not read it
	TunerModel     int    `yaml:"tuner_model"`     // goHamlib rig model id; radioclockd does not read it
	LogLevel       string `yaml:"log_level"`       // "debug", "info", "warn", "error"
	ConsoleEnabled bool   `yaml:"console_enabled"` // raw-mode debug console; radioclockd does not read it
}

// Default returns the built-in defaults, used when no config file is
// present.
func Default() *Config {
	return &Config{
		Protocol:   "dcf77",
		GPIOLine:   -1,
		EEPROMPath: "radioclock.eeprom",
		LogLevel:   "info",
	}
}

// Load reads a YAML config file at path, falling back to Default if
// path is empty or the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BindFlags registers pflag command line overrides for every field,
// mirroring cmd/direwolf/main.go's flat flag-per-setting style. Call
// pflag.Parse() after this and then Apply.
func BindFlags(fs *pflag.FlagSet) *FlagOverrides {
	o := &FlagOverrides{}
	o.Protocol = fs.StringP("protocol", "p", "", "receiver protocol: dcf77 or msf")
	o.AudioDevice = fs.String("audio-device", "", "portaudio input device name")
	o.GPIOChip = fs.String("gpio-chip", "", "gpiochip device path for carrier-detect input")
	o.GPIOLine = fs.Int("gpio-line", -1, "carrier-detect GPIO line offset")
	o.EEPROMPath = fs.String("eeprom-path", "", "calibration persistence file path")
	o.NMEADevice = fs.String("nmea-device", "", "non-empty enables the NMEA time-sentence pty")
	o.DiscoveryName = fs.String("discovery-name", "", "mDNS/DNS-SD instance name")
	o.TunerDevice = fs.String("tuner-device", "", "goHamlib rig device path")
	o.TunerModel = fs.Int("tuner-model", 0, "goHamlib rig model id")
	o.LogLevel = fs.StringP("log-level", "l", "", "log level: debug, info, warn, error")
	o.ConsoleEnabled = fs.Bool("console", false, "enable the raw-mode debug console")
	return o
}

// FlagOverrides holds the pflag-bound pointers; zero/empty values mean
// "not overridden".
type FlagOverrides struct {
	Protocol       *string
	AudioDevice    *string
	GPIOChip       *string
	GPIOLine       *int
	EEPROMPath     *string
	NMEADevice     *string
	DiscoveryName  *string
	TunerDevice    *string
	TunerModel     *int
	LogLevel       *string
	ConsoleEnabled *bool
}

// Apply merges non-empty flag overrides onto cfg, flags winning over
// the file.
func (o *FlagOverrides) Apply(cfg *Config) {
	if *o.Protocol != "" {
		cfg.Protocol = *o.Protocol
	}
	if *o.AudioDevice != "" {
		cfg.AudioDevice = *o.AudioDevice
	}
	if *o.GPIOChip != "" {
		cfg.GPIOChip = *o.GPIOChip
	}
	if *o.GPIOLine != -1 {
		cfg.GPIOLine = *o.GPIOLine
	}
	if *o.EEPROMPath != "" {
		cfg.EEPROMPath = *o.EEPROMPath
	}
	if *o.NMEADevice != "" {
		cfg.NMEADevice = *o.NMEADevice
	}
	if *o.DiscoveryName != "" {
		cfg.DiscoveryName = *o.DiscoveryName
	}
	if *o.TunerDevice != "" {
		cfg.TunerDevice = *o.TunerDevice
	}
	if *o.TunerModel != 0 {
		cfg.TunerModel = *o.TunerModel
	}
	if *o.LogLevel != "" {
		cfg.LogLevel = *o.LogLevel
	}
	if *o.ConsoleEnabled {
		cfg.ConsoleEnabled = true
	}
}
