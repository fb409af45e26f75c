package main

import (
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type HealthReport struct {
	Status            string   `json:"status"`
	ImageDir          string   `json:"image_dir"`
	ImageDirFreeBytes uint64   `json:"image_dir_free_bytes"`
	MemoryUsedPercent float64  `json:"memory_used_percent"`
	PrinterURI        string   `json:"printer_uri,omitempty"`
	Outputs           []string `json:"outputs"`
	PreviewClients    int      `json:"preview_clients"`
}

// collectHealth reports "degraded" when the image directory cannot be
// inspected, since nothing can be rendered to disk then.
func collectHealth(imageDir string) HealthReport {
	report := HealthReport{Status: "ok", ImageDir: imageDir}

	if usage, err := disk.Usage(imageDir); err == nil {
		report.ImageDirFreeBytes = usage.Free
	} else {
		logWarnModule("health", "Disk usage for %s: %v", imageDir, err)
		report.Status = "degraded"
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		report.MemoryUsedPercent = vm.UsedPercent
	}

	return report
}
