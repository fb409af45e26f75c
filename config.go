package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	OutputIPP  = "ipp"
	OutputUSB  = "usb"
	OutputBoth = "both"
	OutputNone = "none"
)

type USBConfig struct {
	VendorID  uint16 `json:"vendor_id"`
	ProductID uint16 `json:"product_id"`
	Endpoint  int    `json:"endpoint"`
}

type ServiceConfig struct {
	Name             string    `json:"name"`
	Listen           string    `json:"listen"`
	PrinterIP        string    `json:"printer_ip"`
	PrinterPort      string    `json:"printer_port"`
	TempImageDir     string    `json:"temp_image_dir"`
	OutputType       string    `json:"output_type"`
	PrintWidthPx     int       `json:"print_width_px,omitempty"`
	FontFamily       string    `json:"font_family,omitempty"`
	FontDirs         []string  `json:"font_dirs,omitempty"`
	LogLevel         string    `json:"log_level,omitempty"`
	LogFile          string    `json:"log_file,omitempty"`
	CommandTimeoutMs int       `json:"command_timeout_ms,omitempty"`
	USB              USBConfig `json:"usb"`
}

type ConfigManager struct {
	configDir string
	configs   map[string]*ServiceConfig
}

func NewConfigManager(configDir string) *ConfigManager {
	return &ConfigManager{
		configDir: configDir,
		configs:   make(map[string]*ServiceConfig),
	}
}

func (cm *ConfigManager) LoadConfig(configName string) (*ServiceConfig, error) {
	if config, exists := cm.configs[configName]; exists {
		return config, nil
	}

	configFile := filepath.Join(cm.configDir, configName+".json")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configFile)
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var config ServiceConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	cm.configs[configName] = &config
	return &config, nil
}

func (cm *ConfigManager) ListConfigs() ([]string, error) {
	files, err := os.ReadDir(cm.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %v", err)
	}

	var configs []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".json" {
			configs = append(configs, strings.TrimSuffix(file.Name(), ".json"))
		}
	}

	return configs, nil
}

// ApplyEnv overrides printer settings from PRINTER_IP, PRINTER_PORT and
// TEMP_IMAGE_DIR when they are set.
func (config *ServiceConfig) ApplyEnv(getenv func(string) string) {
	if v := getenv("PRINTER_IP"); v != "" {
		config.PrinterIP = v
	}
	if v := getenv("PRINTER_PORT"); v != "" {
		config.PrinterPort = v
	}
	if v := getenv("TEMP_IMAGE_DIR"); v != "" {
		config.TempImageDir = v
	}
}

// Validate checks the settings the selected outputs need.
func (config *ServiceConfig) Validate() error {
	var missing []string
	if config.TempImageDir == "" {
		missing = append(missing, "TEMP_IMAGE_DIR")
	}
	if config.UsesIPP() {
		if config.PrinterIP == "" {
			missing = append(missing, "PRINTER_IP")
		}
		if config.PrinterPort == "" {
			missing = append(missing, "PRINTER_PORT")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required setting: %s", strings.Join(missing, ", "))
	}

	switch config.GetOutputType() {
	case OutputIPP, OutputUSB, OutputBoth, OutputNone:
	default:
		return fmt.Errorf("unknown output_type %q", config.OutputType)
	}
	return nil
}

func (config *ServiceConfig) GetOutputType() string {
	if config.OutputType == "" {
		return OutputIPP
	}
	return strings.ToLower(config.OutputType)
}

func (config *ServiceConfig) UsesIPP() bool {
	t := config.GetOutputType()
	return t == OutputIPP || t == OutputBoth
}

func (config *ServiceConfig) UsesUSB() bool {
	t := config.GetOutputType()
	return t == OutputUSB || t == OutputBoth
}

func (config *ServiceConfig) GetListen() string {
	if config.Listen != "" {
		return config.Listen
	}
	return ":5000"
}

func (config *ServiceConfig) GetPrintWidth() int {
	if config.PrintWidthPx > 0 {
		return config.PrintWidthPx
	}
	return DefaultWidthPx
}

func (config *ServiceConfig) GetFontFamily() string {
	if config.FontFamily != "" {
		return config.FontFamily
	}
	return "DejaVuSans"
}

func (config *ServiceConfig) GetLogLevel() string {
	if config.LogLevel != "" {
		return config.LogLevel
	}
	return "info"
}

func (config *ServiceConfig) GetCommandTimeout() time.Duration {
	if config.CommandTimeoutMs > 0 {
		return time.Duration(config.CommandTimeoutMs) * time.Millisecond
	}
	return 30 * time.Second
}

// PrinterURI is the IPP endpoint of the network printer.
func (config *ServiceConfig) PrinterURI() string {
	return fmt.Sprintf("ipp://%s:%s/ipp/print", config.PrinterIP, config.PrinterPort)
}

func (config *ServiceConfig) GetUSB() USBConfig {
	usb := config.USB
	if usb.VendorID == 0 && usb.ProductID == 0 {
		usb.VendorID = escposDefaultVID
		usb.ProductID = escposDefaultPID
	}
	if usb.Endpoint == 0 {
		usb.Endpoint = escposDefaultEndpoint
	}
	return usb
}
