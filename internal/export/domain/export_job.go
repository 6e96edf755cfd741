package domain

import (
	"errors"
	"fmt"
	"time"

	shareddomain "brunch/internal/shared/domain"
)

// ExportFormat représente le format d'export
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
)

// SheetName est le nom de l'unique feuille du classeur exporté
const SheetName = "Planning Production"

// ContentTypeXLSX est le type MIME d'un classeur Excel
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportJob représente un export du planning de production
type ExportJob struct {
	format    ExportFormat
	periode   shareddomain.Periode
	createdAt time.Time
}

// NewExportJob crée un nouveau job d'export avec validation
func NewExportJob(format ExportFormat, periode shareddomain.Periode, now time.Time) (*ExportJob, error) {
	if format != ExportFormatXLSX {
		return nil, errors.New("invalid export format")
	}
	return &ExportJob{
		format:    format,
		periode:   periode,
		createdAt: now,
	}, nil
}

// Format retourne le format d'export
func (ej *ExportJob) Format() ExportFormat {
	return ej.format
}

// Periode retourne la période exportée
func (ej *ExportJob) Periode() shareddomain.Periode {
	return ej.periode
}

// CreatedAt retourne la date de création
func (ej *ExportJob) CreatedAt() time.Time {
	return ej.createdAt
}

// FileName retourne le nom du fichier exporté
func (ej *ExportJob) FileName() string {
	return FileName(ej.periode.DebutISO(), ej.periode.FinISO())
}

// FileName construit le nom de fichier à partir des bornes de la période, telles que reçues
func FileName(debut, fin string) string {
	return fmt.Sprintf("planning_production_%s_to_%s.%s", debut, fin, ExportFormatXLSX)
}
