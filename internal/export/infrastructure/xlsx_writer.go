package infrastructure

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"brunch/internal/export/domain"
)

// Couleurs reprises de l'écran de planning
var fills = map[domain.CellStyle]string{
	domain.StyleTitle:           "#4472C4",
	domain.StyleCategory:        "#D9E1F2",
	domain.StyleHeader:          "#4472C4",
	domain.StyleLabel:           "#F2F2F2",
	domain.StyleQuantityFormule: "#E8F5E9",
	domain.StyleQuantitySuppl:   "#FFF3E0",
	domain.StyleDayTotal:        "#FFE699",
	domain.StyleGrandTotal:      "#F8CBAD",
	domain.StylePlaceholder:     "#F9F9F9",
}

var border = []excelize.Border{
	{Type: "left", Color: "#DDDDDD", Style: 1},
	{Type: "top", Color: "#DDDDDD", Style: 1},
	{Type: "bottom", Color: "#DDDDDD", Style: 1},
	{Type: "right", Color: "#DDDDDD", Style: 1},
}

// XLSXWriter écrit un SheetLayout dans un classeur Excel
type XLSXWriter struct {
	logger *zap.Logger
}

// NewXLSXWriter crée un writer xlsx
func NewXLSXWriter(logger *zap.Logger) *XLSXWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSXWriter{logger: logger}
}

// Write produit le contenu du fichier .xlsx
func (w *XLSXWriter) Write(layout domain.SheetLayout) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.logger.Warn("failed to close workbook", zap.Error(err))
		}
	}()

	sheet := layout.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("renommage de la feuille: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	for i, row := range layout.Rows {
		if len(row) == 0 {
			continue
		}
		values := make([]interface{}, len(row))
		for j, cell := range row {
			values[j] = cell.Text
		}
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return nil, fmt.Errorf("ligne %d: %w", i+1, err)
		}

		for j, cell := range row {
			id, ok := styles[cell.Style]
			if !ok {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(sheet, name, name, id); err != nil {
				return nil, fmt.Errorf("style %s: %w", name, err)
			}
		}
	}

	for _, m := range layout.Merges {
		top, err := excelize.CoordinatesToCellName(m.Col+1, m.Row+1)
		if err != nil {
			return nil, err
		}
		bottom, err := excelize.CoordinatesToCellName(m.EndCol+1, m.EndRow+1)
		if err != nil {
			return nil, err
		}
		if err := f.MergeCell(sheet, top, bottom); err != nil {
			return nil, fmt.Errorf("fusion %s:%s: %w", top, bottom, err)
		}
	}

	for i, width := range layout.ColWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, fmt.Errorf("largeur colonne %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("écriture du classeur: %w", err)
	}

	w.logger.Debug("xlsx written",
		zap.String("file", layout.FileName),
		zap.Int("rows", len(layout.Rows)),
		zap.Int("merges", len(layout.Merges)),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (map[domain.CellStyle]int, error) {
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	defs := map[domain.CellStyle]*excelize.Style{
		domain.StyleTitle: {
			Font:      &excelize.Font{Bold: true, Size: 14, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fills[domain.StyleTitle]}},
			Alignment: center,
		},
		domain.StyleStats: {
			Font: &excelize.Font{Italic: true, Color: "#666666"},
		},
		domain.StyleCategory: {
			Font:      &excelize.Font{Bold: true, Size: 12},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fills[domain.StyleCategory]}},
			Alignment: &excelize.Alignment{Vertical: "center"},
		},
		domain.StyleHeader: {
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fills[domain.StyleHeader]}},
			Alignment: center,
			Border:    border,
		},
		domain.StyleLabel: {
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fills[domain.StyleLabel]}},
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
			Border:    border,
		},
		domain.StyleQuantityFormule: {
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fills[domain.StyleQuantityFormule]}},
			Alignment: center,
			Border:    border,
		},
		domain.StyleQuantitySuppl: {
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fills[domain.StyleQuantitySuppl]}},
			Alignment: center,
			Border:    border,
		},
		domain.StyleDayTotal: {
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fills[domain.StyleDayTotal]}},
			Alignment: center,
			Border:    border,
		},
		domain.StyleGrandTotal: {
			Font:      &excelize.Font{Bold: true, Size: 12},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fills[domain.StyleGrandTotal]}},
			Alignment: center,
			Border:    border,
		},
		domain.StylePlaceholder: {
			Font:      &excelize.Font{Color: "#999999"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fills[domain.StylePlaceholder]}},
			Alignment: center,
			Border:    border,
		},
	}

	ids := make(map[domain.CellStyle]int, len(defs))
	for style, def := range defs {
		id, err := f.NewStyle(def)
		if err != nil {
			return nil, fmt.Errorf("création du style %d: %w", style, err)
		}
		ids[style] = id
	}
	return ids, nil
}
