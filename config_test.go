package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestConfigManagerLoadConfig(t *testing.T) {
	dir := t.TempDir()
	data := `{
  "name": "kitchen",
  "listen": ":8080",
  "printer_ip": "10.0.0.7",
  "printer_port": "631",
  "temp_image_dir": "/var/tmp/sticky",
  "output_type": "both",
  "usb": {"vendor_id": 1155, "product_id": 22304}
}`
	if err := os.WriteFile(filepath.Join(dir, "kitchen.json"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cm := NewConfigManager(dir)
	config, err := cm.LoadConfig("kitchen")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.GetListen() != ":8080" || !config.UsesIPP() || !config.UsesUSB() {
		t.Errorf("unexpected config %+v", config)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	usb := config.GetUSB()
	if usb.VendorID != 1155 || usb.ProductID != 22304 || usb.Endpoint != escposDefaultEndpoint {
		t.Errorf("usb = %+v", usb)
	}

	again, _ := cm.LoadConfig("kitchen")
	if again != config {
		t.Error("second load did not come from the cache")
	}

	names, err := cm.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"kitchen"}) {
		t.Errorf("ListConfigs = %v", names)
	}

	if _, err := cm.LoadConfig("missing"); err == nil {
		t.Error("expected an error for a missing config")
	}
}

func TestServiceConfigApplyEnv(t *testing.T) {
	env := map[string]string{
		"PRINTER_IP":     "127.0.0.1",
		"PRINTER_PORT":   "631",
		"TEMP_IMAGE_DIR": "/tmp/sticky-test",
	}
	config := &ServiceConfig{PrinterIP: "10.0.0.1", TempImageDir: "/var/tmp"}
	config.ApplyEnv(func(k string) string { return env[k] })

	if config.PrinterIP != "127.0.0.1" || config.PrinterPort != "631" || config.TempImageDir != "/tmp/sticky-test" {
		t.Errorf("env not applied: %+v", config)
	}
	if got := config.PrinterURI(); got != "ipp://127.0.0.1:631/ipp/print" {
		t.Errorf("PrinterURI = %s", got)
	}

	keep := &ServiceConfig{PrinterIP: "10.0.0.1"}
	keep.ApplyEnv(func(string) string { return "" })
	if keep.PrinterIP != "10.0.0.1" {
		t.Error("empty env overrode config")
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		config ServiceConfig
		want   string
	}{
		{"ipp missing printer", ServiceConfig{TempImageDir: "/tmp"}, "PRINTER_IP, PRINTER_PORT"},
		{"missing dir", ServiceConfig{OutputType: OutputNone}, "TEMP_IMAGE_DIR"},
		{"bad output", ServiceConfig{TempImageDir: "/tmp", OutputType: "fax"}, "unknown output_type"},
		{"usb only", ServiceConfig{TempImageDir: "/tmp", OutputType: "USB"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestServiceConfigDefaults(t *testing.T) {
	config := &ServiceConfig{}
	if config.GetOutputType() != OutputIPP {
		t.Errorf("output type = %s", config.GetOutputType())
	}
	if config.GetPrintWidth() != DefaultWidthPx {
		t.Errorf("print width = %d", config.GetPrintWidth())
	}
	if config.GetListen() != ":5000" {
		t.Errorf("listen = %s", config.GetListen())
	}
	if config.GetCommandTimeout().Seconds() != 30 {
		t.Errorf("timeout = %v", config.GetCommandTimeout())
	}
}
