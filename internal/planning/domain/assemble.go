package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// TypeFormuleToutes désactive le filtre par type de formule
const TypeFormuleToutes = "toutes"

// CommandeRecord est une commande lue dans le carnet de commandes
type CommandeRecord struct {
	ID       string
	Client   string
	Date     string
	Heure    string
	Couverts int
}

// CommandeFormuleRecord est une formule commandée
type CommandeFormuleRecord struct {
	CommandeID     string
	FormuleID      string
	QuantiteFinale decimal.Decimal
}

// CommandeProduitRecord est un produit commandé hors formule
type CommandeProduitRecord struct {
	CommandeID string
	ProduitID  string
	Quantite   decimal.Decimal
	Unite      string
}

// FormuleRecord décrit une formule
type FormuleRecord struct {
	ID          string
	Nom         string
	TypeFormule string
}

// FormuleProduitRecord est la quantité par personne d'un produit dans une formule
type FormuleProduitRecord struct {
	FormuleID string
	ProduitID string
	Quantite  decimal.Decimal
	Unite     string
}

// ProduitRecord décrit un produit avec ses libellés de catégorie et de type
type ProduitRecord struct {
	ID        string
	Nom       string
	Categorie string
	Type      string
}

// PlanningSource rassemble les enregistrements nécessaires à la construction d'un planning
// Commandes doit être trié par date de livraison
type PlanningSource struct {
	Periode          PeriodeDTO
	TypeFormule      string
	Commandes        []CommandeRecord
	CommandeFormules []CommandeFormuleRecord
	CommandeProduits []CommandeProduitRecord
	Formules         map[string]FormuleRecord
	FormuleProduits  []FormuleProduitRecord
	Produits         map[string]ProduitRecord
}

// AssemblePlanning construit le payload de planning à partir des enregistrements bruts
// Les produits inconnus sont ignorés et signalés dans les avertissements retournés
func AssemblePlanning(src PlanningSource) (Payload, []string) {
	formulesParCommande := make(map[string][]CommandeFormuleRecord)
	for _, cf := range src.CommandeFormules {
		formulesParCommande[cf.CommandeID] = append(formulesParCommande[cf.CommandeID], cf)
	}
	produitsParCommande := make(map[string][]CommandeProduitRecord)
	for _, cp := range src.CommandeProduits {
		produitsParCommande[cp.CommandeID] = append(produitsParCommande[cp.CommandeID], cp)
	}
	contenuFormule := make(map[string][]FormuleProduitRecord)
	for _, fp := range src.FormuleProduits {
		contenuFormule[fp.FormuleID] = append(contenuFormule[fp.FormuleID], fp)
	}

	payload := Payload{Periode: src.Periode}
	var warnings []string
	entries := make(map[string]*Entry)
	var dates []string

	for _, cmd := range src.Commandes {
		if !matchTypeFormule(src.TypeFormule, formulesParCommande[cmd.ID], src.Formules) {
			continue
		}
		payload.CommandesCount++

		entry, ok := entries[cmd.Date]
		if !ok {
			entry = &Entry{}
			entries[cmd.Date] = entry
			dates = append(dates, cmd.Date)
		}

		summary := OrderSummary{
			ID:       cmd.ID,
			Client:   cmd.Client,
			Heure:    cmd.Heure,
			Couverts: cmd.Couverts,
			Produits: make(map[string]ProductLine),
		}

		add := func(produitID string, quantite decimal.Decimal, unite string, source Source) {
			info, ok := src.Produits[produitID]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("produit %s non trouvé", produitID))
				return
			}
			categorie := orDefault(info.Categorie)
			typ := orDefault(info.Type)

			if line, exists := summary.Produits[produitID]; exists {
				line.Quantite = line.Quantite.Add(quantite)
				line.Source = SourceMixte
				summary.Produits[produitID] = line
			} else {
				summary.Produits[produitID] = ProductLine{
					Nom:       info.Nom,
					Quantite:  quantite,
					Unite:     unite,
					Categorie: categorie,
					Type:      typ,
					Source:    source,
				}
			}

			total, _ := entry.Totaux.Get(produitID)
			total.Quantite = total.Quantite.Add(quantite)
			total.Unite = unite
			total.Nom = info.Nom
			total.Categorie = categorie
			total.Type = typ
			entry.Totaux.Set(produitID, total)
		}

		for _, cp := range produitsParCommande[cmd.ID] {
			add(cp.ProduitID, cp.Quantite, cp.Unite, SourceSuppl)
		}
		for _, cf := range formulesParCommande[cmd.ID] {
			for _, fp := range contenuFormule[cf.FormuleID] {
				add(fp.ProduitID, fp.Quantite.Mul(cf.QuantiteFinale), fp.Unite, SourceFormule)
			}
		}

		entry.Commandes = append(entry.Commandes, summary)
	}

	for _, date := range dates {
		entry := entries[date]
		sort.SliceStable(entry.Commandes, func(i, j int) bool {
			return entry.Commandes[i].Heure < entry.Commandes[j].Heure
		})
		payload.Planning.Set(date, *entry)
	}

	return payload, warnings
}

// matchTypeFormule vérifie qu'au moins une formule de la commande a le type demandé
func matchTypeFormule(typeFormule string, formules []CommandeFormuleRecord, infos map[string]FormuleRecord) bool {
	if typeFormule == "" || typeFormule == TypeFormuleToutes {
		return true
	}
	for _, cf := range formules {
		if info, ok := infos[cf.FormuleID]; ok && info.TypeFormule == typeFormule {
			return true
		}
	}
	return false
}

func orDefault(s string) string {
	if s == "" {
		return CategorieParDefaut
	}
	return s
}
