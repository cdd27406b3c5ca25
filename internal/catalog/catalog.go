// Package catalog stores the artist's service catalog, the marketplace
// listings that commissions link to. Services carry the category used by
// priority and work-hours configuration.
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Service is one catalog entry.
type Service struct {
	ID       string
	Name     string
	Category string
	Price    float64
	Currency string
	Open     bool
}

// Store handles service catalog persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new catalog store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Upsert inserts or refreshes a service.
func (s *Store) Upsert(svc Service) error {
	if strings.TrimSpace(svc.ID) == "" {
		return fmt.Errorf("service ID must not be empty")
	}
	_, err := s.db.Exec(
		`INSERT INTO services (id, name, category, price, currency, open)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			price = excluded.price,
			currency = excluded.currency,
			open = excluded.open,
			updated_at = CURRENT_TIMESTAMP`,
		svc.ID, svc.Name, svc.Category, svc.Price, svc.Currency, boolInt(svc.Open),
	)
	return err
}

// Get returns a single service by ID.
func (s *Store) Get(id string) (*Service, error) {
	var svc Service
	var open int
	err := s.db.QueryRow(
		`SELECT id, name, category, price, currency, open FROM services WHERE id = ?`, id,
	).Scan(&svc.ID, &svc.Name, &svc.Category, &svc.Price, &svc.Currency, &open)
	if err != nil {
		return nil, fmt.Errorf("service %q not found", id)
	}
	svc.Open = open == 1
	return &svc, nil
}

// List returns all services ordered by category then name.
func (s *Store) List() ([]Service, error) {
	rows, err := s.db.Query(
		`SELECT id, name, category, price, currency, open FROM services ORDER BY category ASC, name ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var svc Service
		var open int
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Category, &svc.Price, &svc.Currency, &open); err != nil {
			return nil, err
		}
		svc.Open = open == 1
		services = append(services, svc)
	}
	return services, rows.Err()
}

// exportService mirrors the marketplace service export shape.
type exportService struct {
	ID        string `json:"id"`
	ServiceID string `json:"serviceId"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Price     struct {
		From     float64 `json:"from"`
		Currency string  `json:"currency"`
	} `json:"price"`
	IsOpen bool `json:"isOpen"`
}

// ImportFile reads a marketplace service export (JSON array) and upserts
// every entry. Returns the number of services imported.
func (s *Store) ImportFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading export: %w", err)
	}

	var entries []exportService
	if err := json.Unmarshal(raw, &entries); err != nil {
		return 0, fmt.Errorf("unrecognized service export format: %w", err)
	}

	imported := 0
	for _, e := range entries {
		id := e.ServiceID
		if id == "" {
			id = e.ID
		}
		svc := Service{
			ID:       id,
			Name:     e.Title,
			Category: e.Category,
			Price:    e.Price.From,
			Currency: e.Price.Currency,
			Open:     e.IsOpen,
		}
		if err := s.Upsert(svc); err != nil {
			return imported, fmt.Errorf("importing service %q: %w", id, err)
		}
		imported++
	}
	return imported, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
