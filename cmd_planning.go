package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	planning "brunch/internal/planning/domain"
	"brunch/internal/render"
	shareddomain "brunch/internal/shared/domain"
	"brunch/internal/shared/notify"
)

var (
	planningDebut  string
	planningFin    string
	planningVue    string
	planningType   string
	planningTotaux bool
	planningExport bool
	planningOutDir string
)

// planningCmd génère le planning de production
var planningCmd = &cobra.Command{
	Use:   "planning",
	Short: "Génère le planning de production d'une période",
	Long: `Récupère les commandes de la période, affiche le planning par catégorie
et, avec --export, écrit le fichier Excel planning_production_<debut>_to_<fin>.xlsx.

Sans --debut ni --vue, la période va d'aujourd'hui à J+7.

Exemple:
  brunch planning --debut 2025-03-10 --fin 2025-03-16 --type Brunch --export`,
	RunE: runPlanning,
}

func init() {
	planningCmd.Flags().StringVar(&planningDebut, "debut", "", "Date de début (YYYY-MM-DD)")
	planningCmd.Flags().StringVar(&planningFin, "fin", "", "Date de fin (YYYY-MM-DD)")
	planningCmd.Flags().StringVar(&planningVue, "vue", "", "Préréglage à partir de --debut: jour, 3jours ou semaine")
	planningCmd.Flags().StringVar(&planningType, "type", planning.TypeFormuleToutes, "Type de formule: toutes, Brunch, Non-Brunch")
	planningCmd.Flags().BoolVar(&planningTotaux, "totaux", true, "Affiche les colonnes de totaux")
	planningCmd.Flags().BoolVar(&planningExport, "export", false, "Écrit le planning au format Excel")
	planningCmd.Flags().StringVarP(&planningOutDir, "output", "o", ".", "Dossier de l'export Excel")
}

// planningQuery construit la requête à partir des flags
func planningQuery(now time.Time) (planning.Query, error) {
	debut, fin := planningDebut, planningFin
	switch {
	case planningVue != "":
		start := now
		if debut != "" {
			d, err := shareddomain.ParseDate(debut)
			if err != nil {
				return planning.Query{}, err
			}
			start = d
		}
		p, err := shareddomain.PeriodeFromVue(start, shareddomain.Vue(planningVue))
		if err != nil {
			return planning.Query{}, err
		}
		debut, fin = p.DebutISO(), p.FinISO()
	case debut == "" && fin == "":
		p := shareddomain.DefaultPeriode(now)
		debut, fin = p.DebutISO(), p.FinISO()
	}
	return planning.NewQuery(debut, fin, planningType)
}

func runPlanning(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := newApp(ctx, cfg, out, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := planningQuery(time.Now())
	if err != nil {
		return err
	}

	totaux := planningTotaux
	if !cmd.Flags().Changed("totaux") {
		totaux = cfg.Planning.AfficherTotaux
	}

	gen, err := a.planning.Generate(ctx, q, totaux)
	if errors.Is(err, planning.ErrAucuneCommande) {
		notify.NewConsoleNotifier(out, logger).Notify(notify.LevelWarning, planning.MessageAucuneCommande)
		return nil
	}
	if err != nil {
		return err
	}

	if err := render.RenderTerminal(out, gen.Table); err != nil {
		return err
	}
	if !planningExport {
		return nil
	}

	export, err := a.planning.Export(gen)
	if err != nil {
		return err
	}
	path := filepath.Join(planningOutDir, export.FileName)
	if err := os.WriteFile(path, export.Data, 0o644); err != nil {
		return fmt.Errorf("écriture de %s: %w", path, err)
	}
	logger.Info("Planning exporté", zap.String("file", path), zap.Int("bytes", len(export.Data)))
	notify.NewConsoleNotifier(out, logger).Notify(notify.LevelSuccess, "Planning exporté: "+path)
	return nil
}
