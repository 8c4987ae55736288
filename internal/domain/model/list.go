package model

import (
	"encoding/json"
	"time"
)

// PageSize is the row count of every paginated list view.
const PageSize = 50

// Page is one slice of a list plus the total row count.
type Page[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}

// PageBounds converts a zero-based page number to offset and limit.
func PageBounds(page int) (offset, limit int) {
	if page < 0 {
		page = 0
	}
	return page * PageSize, PageSize
}

// ListMetadata describes a list produced by the worker.
type ListMetadata struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	ListType         string     `json:"list_type"`
	Source           string     `json:"source"`
	SourceIdentifier *string    `json:"source_identifier"`
	RowCount         *int       `json:"row_count"`
	LastUpdatedAt    *time.Time `json:"last_updated_at"`
	UpdatedByJobID   *string    `json:"updated_by_job_id"`
}

// ListPreview holds a cached sample of list rows as raw JSON.
type ListPreview struct {
	ListID    string          `json:"list_id"`
	Rows      json.RawMessage `json:"rows"`
	UpdatedAt *time.Time      `json:"updated_at"`
}

// SmsCellListRow is one recipient of the built SMS list.
type SmsCellListRow struct {
	ID            string    `json:"id"`
	PhoneNumber   string    `json:"phone_number"`
	FullName      *string   `json:"full_name"`
	Address       *string   `json:"address"`
	SourceAddress *string   `json:"source_address"`
	LeadType      *string   `json:"lead_type"`
	ResidentType  *string   `json:"resident_type"`
	CreatedAt     time.Time `json:"created_at"`
}

// WarmLeadCounts backs the dashboard card.
type WarmLeadCounts struct {
	Today    int `json:"today"`
	ThisWeek int `json:"this_week"`
}
