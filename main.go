package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

var (
	Version   = "unknown"
	BuildTime = "unknown"
)

func main() {
	defaultConfigDir := "./config"
	if _, err := os.Stat(defaultConfigDir); err != nil {
		if _, err := os.Stat("/etc/stickyprint"); err == nil {
			defaultConfigDir = "/etc/stickyprint"
		}
	}

	configFlag := flag.String("config", "", "Configuration file name (without .json extension)")
	configDirFlag := flag.String("config-dir", defaultConfigDir, "Configuration directory")
	listConfigsFlag := flag.Bool("list-configs", false, "List available configuration files")
	renderFlag := flag.String("render", "", "Render a list file (.json or .list) instead of serving")
	tasksFlag := flag.String("tasks", "", "Render a comma separated task list instead of serving")
	outFlag := flag.String("out", "note.png", "Output image for -render/-tasks (.png or .bmp)")
	printFlag := flag.Bool("print", false, "Send the -render/-tasks output to the configured printers")
	timestampFlag := flag.Bool("timestamp", false, "Add the render time under the -render footer")

	flag.Parse()

	configManager := NewConfigManager(*configDirFlag)

	if *listConfigsFlag {
		configs, err := configManager.ListConfigs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config enumeration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Available configurations:")
		for _, config := range configs {
			fmt.Printf("  %s\n", config)
		}
		return
	}

	config := &ServiceConfig{}
	if *configFlag != "" {
		loaded, err := configManager.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config load failed '%s': %v\n", *configFlag, err)
			os.Exit(1)
		}
		config = loaded
	}
	config.ApplyEnv(os.Getenv)

	initLogger(config.GetLogLevel(), config.LogFile)
	logInfo("stickyprint v%s (built %s)", Version, BuildTime)

	fonts := NewFontCache(config.GetFontFamily(), config.FontDirs)
	renderer := NewNoteRenderer(fonts)

	if *renderFlag != "" || *tasksFlag != "" {
		if err := runOnce(config, renderer, *renderFlag, *tasksFlag, *outFlag, *printFlag, *timestampFlag); err != nil {
			logFatal("%v", err)
		}
		return
	}

	if err := config.Validate(); err != nil {
		logFatal("Config invalid: %v", err)
	}
	if err := os.MkdirAll(config.TempImageDir, 0o755); err != nil {
		logFatal("Image dir: %v", err)
	}

	outputs := newPrinterOutputs(config)
	defer outputs.Close()
	if !outputs.HasHandlers() {
		logWarn("No printer output configured, jobs are only stored in %s", config.TempImageDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logInfo("started, pid is %d", os.Getpid())
	logInfo("Output: %s | Listen: %s", config.GetOutputType(), config.GetListen())

	service := NewService(config, renderer, outputs, NewPreviewHub())
	if err := service.Run(ctx); err != nil {
		logFatal("Server failed: %v", err)
	}
	logInfo("Shutdown complete")
}

func newPrinterOutputs(config *ServiceConfig) *OutputManager {
	outputs := NewOutputManager()
	if config.UsesIPP() {
		handler := NewIPPOutputHandler(config)
		logInfoModule("ipp", "Printer %s", handler.PrinterURI())
		outputs.AddHandler(handler)
	}
	if config.UsesUSB() {
		outputs.AddHandler(NewESCPOSUSBOutputHandler(config.GetUSB()))
	}
	return outputs
}

// runOnce renders a single document or task list to out and optionally prints it.
func runOnce(config *ServiceConfig, renderer *NoteRenderer, listPath, tasks, out string, doPrint, stamp bool) error {
	var img *Monochrome
	if listPath != "" {
		doc, err := loadDocument(listPath)
		if err != nil {
			return err
		}
		if err := doc.Options.Validate(); err != nil {
			return err
		}
		if stamp {
			doc.PrintedAt = time.Now()
		}
		img = renderer.Render(doc)
	} else {
		img = renderer.RenderTaskList(splitTasks(tasks))
	}

	if err := SaveImage(out, img); err != nil {
		return err
	}
	logInfo("Wrote %s (%dx%d)", out, img.Rect.Dx(), img.Rect.Dy())

	if !doPrint {
		return nil
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config invalid: %v", err)
	}

	outputs := newPrinterOutputs(config)
	defer outputs.Close()

	name := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
	job := &PrintJob{Name: name, Image: img, ImagePath: out}
	if err := outputs.Output(context.Background(), job); err != nil {
		return fmt.Errorf("print failed: %v", err)
	}
	logInfo("Printed %s", out)
	return nil
}

func loadDocument(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var payload DocumentPayload
		if err := json.NewDecoder(file).Decode(&payload); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %v", path, err)
		}
		if len(payload.Areas) == 0 {
			return nil, fmt.Errorf("%s: no areas provided", path)
		}
		return payload.Document(), nil
	}
	return ParseList(filepath.Base(path), file)
}

func splitTasks(s string) []string {
	var tasks []string
	for _, task := range strings.Split(s, ",") {
		if task = strings.TrimSpace(task); task != "" {
			tasks = append(tasks, task)
		}
	}
	return tasks
}
