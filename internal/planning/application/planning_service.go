package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	exportdomain "brunch/internal/export/domain"
	"brunch/internal/planning/domain"
)

// Provider fournit le payload de planning d'une période
type Provider interface {
	FetchPlanning(ctx context.Context, q domain.Query) (domain.Payload, error)
}

// SheetWriter écrit une feuille assemblée dans un classeur
type SheetWriter interface {
	Write(layout exportdomain.SheetLayout) ([]byte, error)
}

// Generation est un planning généré, conservé le temps d'un affichage et d'un export
type Generation struct {
	Query       domain.Query
	Payload     domain.Payload
	Table       domain.Table
	GeneratedAt time.Time
}

// Export est un fichier prêt à être téléchargé
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

// PlanningService génère le planning de production et son export
type PlanningService struct {
	provider Provider
	writer   SheetWriter
	logger   *zap.Logger
	now      func() time.Time
}

// NewPlanningService crée une nouvelle instance de PlanningService
func NewPlanningService(provider Provider, writer SheetWriter, logger *zap.Logger) *PlanningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningService{
		provider: provider,
		writer:   writer,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate récupère un payload et construit le tableau
// Un planning sans date retourne domain.ErrAucuneCommande
func (s *PlanningService) Generate(ctx context.Context, q domain.Query, totaux bool) (*Generation, error) {
	start := s.now()

	payload, err := s.provider.FetchPlanning(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("récupération du planning: %w", err)
	}

	table, err := domain.BuildTable(payload, totaux)
	if err != nil {
		if errors.Is(err, domain.ErrAucuneCommande) {
			s.logger.Info("planning is empty",
				zap.String("debut", q.Periode.DebutISO()),
				zap.String("fin", q.Periode.FinISO()),
			)
		}
		return nil, err
	}

	gen := &Generation{
		Query:       q,
		Payload:     payload,
		Table:       table,
		GeneratedAt: s.now(),
	}
	s.logger.Info("planning generated",
		zap.String("debut", q.Periode.DebutISO()),
		zap.String("fin", q.Periode.FinISO()),
		zap.Int("jours", q.Periode.Jours()),
		zap.String("type_formule", q.TypeFormule),
		zap.Int("commandes", payload.CommandesCount),
		zap.Int("categories", len(table.Categories)),
		zap.Int("produits", table.ProduitsCount),
		zap.Duration("duration", gen.GeneratedAt.Sub(start)),
	)
	return gen, nil
}

// Export produit le classeur .xlsx d'un planning généré
func (s *PlanningService) Export(gen *Generation) (Export, error) {
	if gen == nil {
		return Export{}, domain.ErrAucuneCommande
	}

	job, err := exportdomain.NewExportJob(exportdomain.ExportFormatXLSX, gen.Query.Periode, s.now())
	if err != nil {
		return Export{}, err
	}

	layout := exportdomain.AssembleSheet(gen.Table)
	// le nom du fichier suit la période demandée, pas celle renvoyée par le fournisseur
	layout.FileName = job.FileName()
	data, err := s.writer.Write(layout)
	if err != nil {
		return Export{}, fmt.Errorf("export du planning: %w", err)
	}

	s.logger.Info("planning exported",
		zap.String("file", layout.FileName),
		zap.String("format", string(job.Format())),
		zap.Time("created_at", job.CreatedAt()),
		zap.Int("rows", len(layout.Rows)),
		zap.Int("bytes", len(data)),
	)
	return Export{
		FileName:    layout.FileName,
		ContentType: exportdomain.ContentTypeXLSX,
		Data:        data,
	}, nil
}
