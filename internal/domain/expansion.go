package domain

import (
	"context"
	"time"
)

// Expansion is a named release within the card catalog.
type Expansion struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Series       string    `json:"series"`
	Code         string    `json:"code,omitempty"`
	PrintedTotal int       `json:"printed_total"`
	LanguageCode string    `json:"language_code"`
	ReleaseDate  time.Time `json:"release_date"`
	Logo         string    `json:"logo,omitempty"`
	Symbol       string    `json:"symbol,omitempty"`
	Aliases      []string  `json:"aliases,omitempty"`
}

// CatalogExpansion is the catalog service's own view of an expansion, used
// to reconcile locally assigned ids.
type CatalogExpansion struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Series       string `json:"series"`
	Code         string `json:"ptcgoCode"`
	PrintedTotal int    `json:"printedTotal"`
	ReleaseDate  string `json:"releaseDate"`
}

// ExpansionLister lists the catalog's expansions.
type ExpansionLister interface {
	ListExpansions(ctx context.Context) ([]CatalogExpansion, error)
}
