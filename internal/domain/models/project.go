package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusPublished ProjectStatus = "published"
	ProjectStatusArchived  ProjectStatus = "archived"
)

type Project struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	OwnerID     uuid.UUID     `db:"owner_id" json:"owner_id"`
	Slug        string        `db:"slug" json:"slug"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	Status      ProjectStatus `db:"status" json:"status"`
	Tags        []string      `db:"tags" json:"tags"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

type Room struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProjectID uuid.UUID `db:"project_id" json:"project_id"`
	Name      string    `db:"name" json:"name"`
	Kind      string    `db:"kind" json:"kind"`
	AreaSqm   float64   `db:"area_sqm" json:"area_sqm"`
}

type Product struct {
	ID             uuid.UUID `db:"id" json:"id"`
	RoomID         uuid.UUID `db:"room_id" json:"room_id"`
	Name           string    `db:"name" json:"name"`
	Category       string    `db:"category" json:"category"`
	Quantity       int       `db:"quantity" json:"quantity"`
	UnitPriceCents int64     `db:"unit_price_cents" json:"unit_price_cents"`
	URL            string    `db:"url" json:"url,omitempty"`
}

// ProjectSummary aggregates a project's rooms, products and inquiries.
type ProjectSummary struct {
	ProjectID        uuid.UUID `json:"project_id"`
	RoomCount        int       `json:"room_count"`
	ProductCount     int       `json:"product_count"`
	TotalCostCents   int64     `json:"total_cost_cents"`
	PendingInquiries int       `json:"pending_inquiries"`
	QuotedInquiries  int       `json:"quoted_inquiries"`
}
