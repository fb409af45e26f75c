package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// A job is "stored" when the image was saved and no printer is configured.
const (
	statusPrinted = "printed"
	statusFailed  = "failed"
	statusStored  = "stored"
)

// PrintResponse is returned by the print endpoints. Printed reports the
// printer outcome only; the image has been saved either way.
type PrintResponse struct {
	Status    string `json:"status"`
	Printed   bool   `json:"printed"`
	ImagePath string `json:"image_path,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Preview   string `json:"preview,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type tasksRequest struct {
	Tasks []string `json:"tasks"`
}

type Service struct {
	config   *ServiceConfig
	renderer *NoteRenderer
	files    *FileOutputHandler
	outputs  *OutputManager
	hub      *PreviewHub
	now      func() time.Time

	// font faces keep per-face scratch buffers, so renders run one at a time
	renderMutex sync.Mutex
	seq         uint64
}

func NewService(config *ServiceConfig, renderer *NoteRenderer, outputs *OutputManager, hub *PreviewHub) *Service {
	return &Service{
		config:   config,
		renderer: renderer,
		files:    NewFileOutputHandler(config.TempImageDir, FormatPNG),
		outputs:  outputs,
		hub:      hub,
		now:      time.Now,
	}
}

func (s *Service) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logInfoModule("http", "%s %s %d %v", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.POST("/print/grocery", s.handlePrintGrocery)
	e.POST("/print/tasks", s.handlePrintTasks)
	e.GET("/healthz", s.handleHealth)
	e.GET("/ws/preview", s.hub.Handle)
	return e
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	e := s.Echo()
	errCh := make(chan error, 1)
	go func() {
		logInfoModule("http", "Listening on %s", s.config.GetListen())
		if err := e.Start(s.config.GetListen()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func (s *Service) jobName(kind string) string {
	n := atomic.AddUint64(&s.seq, 1)
	return fmt.Sprintf("%s-%s-%d", kind, s.now().Format("20060102-150405"), n)
}

func (s *Service) render(fn func() *Monochrome) *Monochrome {
	s.renderMutex.Lock()
	defer s.renderMutex.Unlock()
	return fn()
}

// submit persists the job and then tries the printers. With no printer
// outputs configured the job stops at the saved file.
func (s *Service) submit(ctx context.Context, job *PrintJob) (status string, err error) {
	if err := s.files.Output(ctx, job); err != nil {
		return statusFailed, err
	}
	if !s.outputs.HasHandlers() {
		logInfoModule("print", "Job %s stored at %s", job.Name, job.ImagePath)
		return statusStored, nil
	}
	if err := s.outputs.Output(ctx, job); err != nil {
		logWarnModule("print", "Job %s not printed: %v", job.Name, err)
		return statusFailed, err
	}
	return statusPrinted, nil
}

func (s *Service) handlePrintGrocery(c echo.Context) error {
	var payload DocumentPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid JSON payload."})
	}
	if len(payload.Areas) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "No areas provided."})
	}

	doc := payload.Document()
	if payload.Timestamp {
		doc.PrintedAt = s.now()
	}
	if err := doc.Options.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	img := s.render(func() *Monochrome { return s.renderer.Render(doc) })
	job := &PrintJob{Name: s.jobName("grocery_note"), Image: img}

	status, err := s.submit(c.Request().Context(), job)
	if job.ImagePath == "" {
		logErrorModule("print", "Saving %s failed: %v", job.Name, err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to save image."})
	}
	printed := status == statusPrinted

	preview, err := EncodePreview(img)
	if err != nil {
		logWarnModule("print", "Preview for %s: %v", job.Name, err)
	}

	resp := PrintResponse{
		Status:    status,
		Printed:   printed,
		ImagePath: job.ImagePath,
		Width:     img.Rect.Dx(),
		Height:    img.Rect.Dy(),
		Preview:   preview,
	}
	s.hub.Broadcast(PreviewEvent{
		Kind:    "grocery_note",
		Title:   doc.Title,
		Width:   resp.Width,
		Height:  resp.Height,
		Printed: printed,
		Preview: preview,
	})
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handlePrintTasks(c echo.Context) error {
	var req tasksRequest
	if err := c.Bind(&req); err != nil || len(req.Tasks) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "No tasks provided."})
	}

	img := s.render(func() *Monochrome { return s.renderer.RenderTaskList(req.Tasks) })
	job := &PrintJob{Name: s.jobName("tasks"), Image: img}

	status, err := s.submit(c.Request().Context(), job)
	if job.ImagePath == "" {
		logErrorModule("print", "Saving %s failed: %v", job.Name, err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to save image."})
	}
	printed := status == statusPrinted
	if errors.Is(err, errBitmapConversion) {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to render BMP image."})
	}

	if preview, err := EncodePreview(img); err == nil {
		s.hub.Broadcast(PreviewEvent{
			Kind:    "tasks",
			Title:   taskListTitle,
			Width:   img.Rect.Dx(),
			Height:  img.Rect.Dy(),
			Printed: printed,
			Preview: preview,
		})
	}
	return c.JSON(http.StatusOK, PrintResponse{Status: status, Printed: printed})
}

func (s *Service) handleHealth(c echo.Context) error {
	report := collectHealth(s.config.TempImageDir)
	if s.config.UsesIPP() {
		report.PrinterURI = s.config.PrinterURI()
	}
	report.Outputs = s.outputs.HandlerTypes()
	report.PreviewClients = s.hub.ClientCount()
	return c.JSON(http.StatusOK, report)
}
