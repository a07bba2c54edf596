package api

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-flagger/internal/extractor"
	"github.com/insightdelivered/statement-flagger/internal/logger"
	"github.com/insightdelivered/statement-flagger/internal/models"
	"github.com/insightdelivered/statement-flagger/internal/scanner"
	"github.com/insightdelivered/statement-flagger/internal/writer"
)

// ScanResponse is the JSON response from the /api/scan endpoint.
type ScanResponse struct {
	Success      bool               `json:"success"`
	Error        string             `json:"error,omitempty"`
	ID           string             `json:"id,omitempty"`
	Source       string             `json:"source,omitempty"`
	Institution  string             `json:"institution,omitempty"`
	Records      []Record           `json:"records"`
	Count        int                `json:"count"`
	LinesScanned int                `json:"linesScanned"`
	CSV          string             `json:"csv,omitempty"`
	Version      string             `json:"version,omitempty"`
	DebugLines   []models.DebugLine `json:"debugLines,omitempty"`
}

// Record is a flagged transaction as shown to API clients.
type Record struct {
	Date          string   `json:"date"`
	Description   string   `json:"description"`
	Amount        float64  `json:"amount"`
	AmountDisplay string   `json:"amountDisplay"`
	FlagReason    string   `json:"flagReason"`
	FlagReasons   []string `json:"flagReasons"`
}

type scanRequest struct {
	Text string `json:"text"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Scanner *scanner.Scanner
	Version string
	Log     zerolog.Logger
}

// NewApp wires middleware and routes. Request bodies larger than
// maxInputBytes are rejected with 413 before any scanning happens.
func NewApp(h *Handler, maxInputBytes int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "statement-flagger",
		BodyLimit:             maxInputBytes,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/scan", h.HandleScan)
	return app
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleScan accepts either a "text" field (form or JSON) holding already
// extracted statement text, or a multipart "file" upload (.pdf or .txt).
// Pass ?debug=true to get per-line outcomes.
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	start := time.Now()

	id := c.GetRespHeader(fiber.HeaderXRequestID)
	ctx := logger.WithContext(c.UserContext(), h.Log.With().Str("request_id", id).Logger())
	c.SetUserContext(ctx)
	log := logger.FromContext(ctx)

	text, source, err := h.readInput(c)
	if err != nil {
		status, msg := fiber.StatusBadRequest, err.Error()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status, msg = fe.Code, fe.Message
		}
		log.Warn().Int("status", status).Str("error", msg).Msg("scan rejected")
		return writeError(c, status, msg)
	}

	res, err := h.Scanner.ScanContext(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("scan aborted")
		return writeError(c, fiber.StatusServiceUnavailable, fmt.Sprintf("Scan aborted: %v", err))
	}
	res.ID = id
	res.Source = source

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: c.QueryBool("header", false)}
	if err := csvWriter.Write(&csvBuf, &res); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	// Never nil: nil marshals to JSON null, not [].
	records := make([]Record, 0, len(res.Records))
	for _, rec := range res.Records {
		records = append(records, Record{
			Date:          rec.Date,
			Description:   rec.Description,
			Amount:        rec.Amount,
			AmountDisplay: writer.FormatCurrency(rec.Amount),
			FlagReason:    rec.FlagReason(),
			FlagReasons:   rec.FlagReasons,
		})
	}

	resp := ScanResponse{
		Success:      true,
		ID:           res.ID,
		Source:       source,
		Institution:  res.Institution,
		Records:      records,
		Count:        len(records),
		LinesScanned: res.LinesTotal,
		CSV:          csvBuf.String(),
		Version:      h.Version,
	}
	if c.QueryBool("debug", false) {
		resp.DebugLines = res.DebugLines
	}

	log.Info().
		Str("source", source).
		Int("lines", res.LinesTotal).
		Int("flagged", len(records)).
		Dur("elapsed", time.Since(start)).
		Msg("statement scanned")

	return c.JSON(resp)
}

// readInput returns the statement text and a label for where it came from.
// Failures are *fiber.Error values carrying the status to report.
func (h *Handler) readInput(c *fiber.Ctx) (text, source string, err error) {
	if c.Is("json") {
		var req scanRequest
		if err := c.BodyParser(&req); err != nil {
			return "", "", fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		}
		return req.Text, "text", nil
	}

	if text := c.FormValue("text"); text != "" {
		return text, "text", nil
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "No input. Send form field 'text' or upload form field 'file'.")
	}
	f, err := fh.Open()
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "Failed to read uploaded file.")
	}
	defer f.Close()

	text, err = extractor.ExtractFromReader(f, fh.Filename)
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return "", "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Only PDF and plain-text files are supported.")
	case err != nil:
		return "", "", fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("Text extraction failed: %v", err))
	}
	return text, fh.Filename, nil
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ScanResponse{
		Success: false,
		Error:   msg,
	})
}
