// =============================================================================
// AKT Filler - Web Transport
// =============================================================================
//
// This module exposes the fill pipeline as a small web form.
//
// ROUTES:
//   GET  /        - upload form
//   POST /fill    - multipart form (excel, docx, sheet, sales); responds with
//                   the filled .docx as an attachment
//   GET  /healthz - liveness probe
//
// ERRORS:
//   A failed fill re-renders the form with one message. The status code is
//   picked from the wrapped sentinel error:
//     400 - missing or unsupported upload, unreadable file, bad sale list
//     422 - required column or placeholder not found
//     500 - anything else
//
// =============================================================================

package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ginjaninja78/akt-filler/internal/config"
	"github.com/ginjaninja78/akt-filler/internal/converter"
	"github.com/ginjaninja78/akt-filler/internal/docx"
	"github.com/ginjaninja78/akt-filler/internal/validation"
)

// Response headers set on /fill.
const (
	HeaderRequestID    = "X-Request-Id"
	HeaderMode         = "X-Akt-Mode"
	HeaderPlaceholders = "X-Akt-Placeholders"
	HeaderFilled       = "X-Akt-Filled"
	HeaderUnusedLines  = "X-Akt-Unused-Lines"
)

//go:embed web/form.html
var webFS embed.FS

var formPage = template.Must(template.ParseFS(webFS, "web/form.html"))

// FillService runs one fill request.
type FillService interface {
	Run(ctx context.Context, req converter.Request) (*converter.Result, error)
}

// formData is rendered into the upload form.
type formData struct {
	Error string
	Sheet string
	Sales string
}

// =============================================================================
// HANDLER
// =============================================================================

// Handler serves the upload form and the fill endpoint.
type Handler struct {
	service FillService
	logger  *zap.Logger
}

// New creates a Handler around service.
func New(service FillService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", h.form)
	app.Post("/fill", h.fill)
	app.Get("/healthz", h.health)
}

func (h *Handler) form(c fiber.Ctx) error {
	return render(c, fiber.StatusOK, formData{})
}

func (h *Handler) health(c fiber.Ctx) error {
	return c.SendString("ok")
}

func (h *Handler) fill(c fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Set(HeaderRequestID, requestID)
	log := h.logger.With(zap.String("request_id", requestID))

	data := formData{
		Sheet: c.FormValue("sheet"),
		Sales: c.FormValue("sales"),
	}

	req := converter.Request{Sheet: data.Sheet, Sales: data.Sales}

	var err error
	if req.Spreadsheet, req.SpreadsheetName, err = readUpload(c, "excel"); err != nil {
		return h.fail(c, log, data, err)
	}
	if req.Template, req.TemplateName, err = readUpload(c, "docx"); err != nil {
		return h.fail(c, log, data, err)
	}

	result, err := h.service.Run(c.Context(), req)
	if err != nil {
		return h.fail(c, log, data, err)
	}

	c.Set(HeaderMode, string(result.Stats.Mode))
	c.Set(HeaderPlaceholders, strconv.Itoa(result.Stats.Placeholders))
	c.Set(HeaderFilled, strconv.Itoa(result.Stats.Filled))
	c.Set(HeaderUnusedLines, strconv.Itoa(result.Stats.UnusedLines))

	c.Attachment(result.FileName)
	c.Set(fiber.HeaderContentType, docx.MIMEType)

	log.Info("fill served",
		zap.String("output", result.FileName),
		zap.Int("bytes", len(result.Data)),
	)
	return c.Status(fiber.StatusOK).Send(result.Data)
}

// fail logs err and re-renders the form with its message.
func (h *Handler) fail(c fiber.Ctx, log *zap.Logger, data formData, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("fill failed", zap.Error(err))
	} else {
		log.Warn("fill rejected", zap.Int("status", status), zap.Error(err))
	}

	data.Error = Message(err)
	return render(c, status, data)
}

// readUpload returns the bytes and file name of a multipart field.
// An absent field is not an error; the pipeline reports it as missing.
func readUpload(c fiber.Ctx, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", validation.ErrMissingFile, field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", validation.ErrMissingFile, field, err)
	}
	return data, fh.Filename, nil
}

func render(c fiber.Ctx, status int, data formData) error {
	var buf bytes.Buffer
	if err := formPage.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

// StatusFor maps a pipeline error to an HTTP status code.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, validation.ErrInvalidSaleList),
		errors.Is(err, validation.ErrMissingFile),
		errors.Is(err, validation.ErrUnsupportedFile),
		errors.Is(err, converter.ErrUnreadableSpreadsheet),
		errors.Is(err, docx.ErrInvalidDocument):
		return fiber.StatusBadRequest
	case errors.Is(err, converter.ErrColumnNotFound),
		errors.Is(err, docx.ErrNoPlaceholder):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the operator-facing text for err.
func Message(err error) string {
	switch {
	case errors.Is(err, validation.ErrMissingFile):
		return "Həm Excel (.xlsx), həm də Word (.docx) faylı yükləməlisiniz."
	case errors.Is(err, validation.ErrInvalidSaleList):
		return "NV satış nömrələri sırf rəqəm olmalıdır (məs: 1,2,3). " + err.Error()
	default:
		return err.Error()
	}
}

// =============================================================================
// APPLICATION
// =============================================================================

// NewApp creates the Fiber application with the upload limit and the
// error handler applied.
func NewApp(cfg config.ServerConfig, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}

	return fiber.New(fiber.Config{
		AppName:   "akt-filler",
		BodyLimit: cfg.MaxUploadMB * 1024 * 1024,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			status := StatusFor(err)
			logger.Warn("request failed",
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
			return render(c, status, formData{Error: err.Error()})
		},
	})
}

// Serve runs app on addr until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, app *fiber.App, addr string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	logger.Info("listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		logger.Info("shutting down")
		return app.ShutdownWithContext(shutdownCtx)
	}
}
