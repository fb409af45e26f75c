package main

import (
	"context"
	"fmt"
	"sync"
)

// PrintJob is one rendered canvas on its way to the printers. ImagePath is set
// once the artifact has been written to disk.
type PrintJob struct {
	Name      string
	Image     *Monochrome
	ImagePath string
}

type OutputHandler interface {
	Output(ctx context.Context, job *PrintJob) error
	Close() error
	GetType() string
}

// OutputManager fans a job out to every printer. A job counts as printed when
// at least one handler succeeds. Jobs are submitted one at a time.
type OutputManager struct {
	handlers []OutputHandler
	mutex    sync.Mutex
}

func NewOutputManager() *OutputManager {
	return &OutputManager{
		handlers: make([]OutputHandler, 0),
	}
}

func (om *OutputManager) AddHandler(handler OutputHandler) {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	om.handlers = append(om.handlers, handler)
}

func (om *OutputManager) HasHandlers() bool {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	return len(om.handlers) > 0
}

func (om *OutputManager) HandlerTypes() []string {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	types := make([]string, 0, len(om.handlers))
	for _, handler := range om.handlers {
		types = append(types, handler.GetType())
	}
	return types
}

func (om *OutputManager) Output(ctx context.Context, job *PrintJob) error {
	om.mutex.Lock()
	defer om.mutex.Unlock()

	if len(om.handlers) == 0 {
		return fmt.Errorf("no printer configured")
	}

	var lastErr error
	hasSuccess := false

	for _, handler := range om.handlers {
		if err := handler.Output(ctx, job); err != nil {
			logWarnModule("output", "%s failed: %v", handler.GetType(), err)
			lastErr = err
		} else {
			logInfoModule("output", "%s printed %s", handler.GetType(), job.Name)
			hasSuccess = true
		}
	}

	if !hasSuccess && lastErr != nil {
		return lastErr
	}

	return nil
}

func (om *OutputManager) Close() {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	for _, handler := range om.handlers {
		if err := handler.Close(); err != nil {
			logWarnModule("output", "%s close: %v", handler.GetType(), err)
		}
	}
}
