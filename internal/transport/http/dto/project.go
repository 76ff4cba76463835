package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=120"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=4000"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=40"`
}

type UpdateProjectRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=120"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=4000"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=40"`
}

type ProjectResponse struct {
	ID          uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	OwnerID     uuid.UUID `json:"owner_id" swaggertype:"string" format:"uuid"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectListResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
}

type AddRoomRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=80"`
	Kind    string  `json:"kind" validate:"required,oneof=kitchen bathroom bedroom living hallway office other"`
	AreaSqm float64 `json:"area_sqm" validate:"required,gt=0"`
}

type RoomResponse struct {
	ID        uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	ProjectID uuid.UUID `json:"project_id" swaggertype:"string" format:"uuid"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	AreaSqm   float64   `json:"area_sqm"`
}

type AddProductRequest struct {
	RoomID         uuid.UUID `json:"room_id" validate:"required" swaggertype:"string" format:"uuid"`
	Name           string    `json:"name" validate:"required,min=1,max=160"`
	Category       string    `json:"category,omitempty" validate:"omitempty,max=80"`
	Quantity       int       `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents int64     `json:"unit_price_cents" validate:"required,gte=0"`
	URL            string    `json:"url,omitempty" validate:"omitempty,url"`
}

type ProductResponse struct {
	ID             uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	RoomID         uuid.UUID `json:"room_id" swaggertype:"string" format:"uuid"`
	Name           string    `json:"name"`
	Category       string    `json:"category,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	URL            string    `json:"url,omitempty"`
}

type ProjectSummaryResponse struct {
	ProjectID        uuid.UUID `json:"project_id" swaggertype:"string" format:"uuid"`
	RoomCount        int       `json:"room_count"`
	ProductCount     int       `json:"product_count"`
	TotalCostCents   int64     `json:"total_cost_cents"`
	PendingInquiries int       `json:"pending_inquiries"`
	QuotedInquiries  int       `json:"quoted_inquiries"`
}
