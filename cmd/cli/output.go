package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
	"github.com/hamadismail/xpeed-cng/internal/render"
)

// writeInvoice prints an invoice in the requested format ("text" or "json").
func writeInvoice(w io.Writer, format string, payload interface{}, inv models.DerivedInvoice) error {
	switch strings.ToLower(format) {
	case "text", "":
		_, err := io.WriteString(w, render.Text(inv))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	default:
		return fmt.Errorf("invalid output format: %s (use 'text' or 'json')", format)
	}
}

// writeWorkbook saves the invoice as an .xlsx file when path is set.
func writeWorkbook(path string, inv models.DerivedInvoice) error {
	if path == "" {
		return nil
	}

	data, err := render.XLSX(inv)
	if err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
