// Package api exposes extraction over HTTP: upload a statement PDF, get the
// typed records back as JSON. Records are extracted against an in-memory
// store, so the endpoint never touches the database file.
package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/ledger-extractor/internal/driver"
	"github.com/insightdelivered/ledger-extractor/internal/models"
	"github.com/insightdelivered/ledger-extractor/internal/parser"
)

const version = "1.0.0"

// ExtractResponse is the JSON response from /api/extract.
type ExtractResponse struct {
	Success      bool            `json:"success"`
	Error        string          `json:"error,omitempty"`
	Pages        int             `json:"pages"`
	Sections     int             `json:"sections"`
	SkippedPages int             `json:"skippedPages"`
	Transactions []models.Record `json:"transactions"`
	Payroll      []models.Record `json:"payroll"`
	Version      string          `json:"version,omitempty"`
}

// Handler holds the HTTP handlers.
type Handler struct {
	Log zerolog.Logger
}

// Register sets up the routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/api/extract", h.handleExtract)
	app.Get("/api/health", h.handleHealth)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

func (h *Handler) handleExtract(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	tmp, err := os.MkdirTemp("", "statement-")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp dir.")
	}
	defer os.RemoveAll(tmp)

	path := filepath.Join(tmp, filepath.Base(file.Filename))
	if err := c.SaveFile(file, path); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	resp := ExtractResponse{
		Success:      true,
		Transactions: []models.Record{},
		Payroll:      []models.Record{},
		Version:      version,
	}
	sum, err := driver.Run(driver.Config{Input: path, DBPath: ":memory:"}, h.Log, func(kind parser.SectionKind, rec models.Record) {
		if kind == parser.KindPayroll {
			resp.Payroll = append(resp.Payroll, rec)
			return
		}
		resp.Transactions = append(resp.Transactions, rec)
	})
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Extraction failed: %v", err))
	}

	resp.Pages = sum.Pages
	resp.Sections = sum.Sections
	resp.SkippedPages = sum.SkippedPages
	return c.JSON(resp)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Record{},
		Payroll:      []models.Record{},
	})
}
