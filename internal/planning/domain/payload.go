package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Source indique d'où vient la quantité d'un produit dans une commande
type Source string

const (
	SourceFormule Source = "formule"
	SourceSuppl   Source = "suppl"
	SourceMixte   Source = "mixte"
)

// PeriodeDTO est la période demandée, telle que renvoyée par le fournisseur de planning
type PeriodeDTO struct {
	Debut string `json:"debut"`
	Fin   string `json:"fin"`
}

// Payload est le document de planning renvoyé par GET /planning/production
type Payload struct {
	Periode        PeriodeDTO        `json:"periode"`
	CommandesCount int               `json:"commandes_count"`
	Planning       OrderedMap[Entry] `json:"planning"`
}

// Entry regroupe les commandes et les totaux d'une date de livraison
type Entry struct {
	Commandes []OrderSummary           `json:"commandes"`
	Totaux    OrderedMap[ProductTotal] `json:"totaux"`
}

// OrderSummary est une commande telle qu'elle apparaît dans le planning
type OrderSummary struct {
	ID       string                 `json:"id"`
	Client   string                 `json:"client"`
	Heure    string                 `json:"heure"`
	Couverts int                    `json:"couverts"`
	Produits map[string]ProductLine `json:"produits"`
}

// ProductLine est la quantité d'un produit pour une commande
type ProductLine struct {
	Nom       string          `json:"nom"`
	Quantite  decimal.Decimal `json:"quantite"`
	Unite     string          `json:"unite"`
	Categorie string          `json:"categorie"`
	Type      string          `json:"type"`
	Source    Source          `json:"source"`
}

// ProductTotal est le total d'un produit pour une date
type ProductTotal struct {
	Nom       string          `json:"nom"`
	Quantite  decimal.Decimal `json:"quantite"`
	Unite     string          `json:"unite"`
	Categorie string          `json:"categorie"`
	Type      string          `json:"type"`
}

// DecodePayload lit un payload JSON en conservant l'ordre des dates et des produits
func DecodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("payload de planning invalide: %w", err)
	}
	return p, nil
}

// IsEmpty indique qu'aucune date n'est planifiée
func (p Payload) IsEmpty() bool {
	return p.Planning.Len() == 0
}

// Dates retourne les dates du planning triées (YYYY-MM-DD: l'ordre lexicographique est chronologique)
func (p Payload) Dates() []string {
	dates := p.Planning.Keys()
	sort.Strings(dates)
	return dates
}
