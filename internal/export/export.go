// Package export writes a portable copy of everything stored on the device.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/models"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

const (
	sheetJournal       = "Journal"
	sheetConversations = "Conversations"
	sheetCheckins      = "Check-ins"
)

// ParseFormat accepts "json" or "xlsx" in any case
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (expected json or xlsx)", s)
	}
}

// Snapshot is the exported document
type Snapshot struct {
	App            string                `json:"app"`
	Version        string                `json:"version"`
	ExportedAt     time.Time             `json:"exportedAt"`
	Conversations  []models.Conversation `json:"conversations"`
	JournalEntries []models.JournalEntry `json:"journalEntries"`
	Checkins       models.CheckinValues  `json:"checkins"`
}

// NewSnapshot assembles a snapshot. Nil slices export as empty lists.
func NewSnapshot(convos []models.Conversation, entries []models.JournalEntry, checkins models.CheckinValues, now time.Time) Snapshot {
	if convos == nil {
		convos = []models.Conversation{}
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	if checkins == nil {
		checkins = models.CheckinValues{}
	}
	return Snapshot{
		App:            constants.AppName,
		Version:        constants.Version,
		ExportedAt:     now,
		Conversations:  convos,
		JournalEntries: entries,
		Checkins:       checkins,
	}
}

func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// WriteXLSX writes one sheet per data set: journal entries, conversation
// messages (one row per message) and check-in values.
func WriteXLSX(w io.Writer, snap Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetJournal); err != nil {
		return fmt.Errorf("failed to create journal sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetConversations); err != nil {
		return fmt.Errorf("failed to create conversations sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetCheckins); err != nil {
		return fmt.Errorf("failed to create check-ins sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	journal := [][]any{{"ID", "Date", "Mood", "Text"}}
	for _, e := range snap.JournalEntries {
		journal = append(journal, []any{e.ID, e.Date.Format(time.RFC3339), string(e.Mood), e.Text})
	}

	convos := [][]any{{"Conversation ID", "Title", "Sender", "Time", "Text"}}
	for _, c := range snap.Conversations {
		for _, m := range c.Messages {
			convos = append(convos, []any{c.ID, c.Title, string(m.Sender), m.Time.Format(time.RFC3339), m.Text})
		}
	}

	checkins := [][]any{{"Category", "Value", "Label"}}
	for _, name := range models.CategoryNames() {
		v, ok := snap.Checkins[name]
		if !ok {
			continue
		}
		checkins = append(checkins, []any{name, v, models.CheckinCategories[name].Label(v)})
	}

	for sheet, rows := range map[string][][]any{
		sheetJournal:       journal,
		sheetConversations: convos,
		sheetCheckins:      checkins,
	} {
		if err := writeRows(f, sheet, rows, header); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return nil
}

// ToFile writes snap to path, creating parent directories. Files are
// private to the user.
func ToFile(path string, format Format, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	switch format {
	case FormatXLSX:
		err = WriteXLSX(out, snap)
	default:
		err = WriteJSON(out, snap)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close export file: %w", cerr)
	}
	return err
}
