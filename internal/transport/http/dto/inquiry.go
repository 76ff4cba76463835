package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateInquiryRequest struct {
	ProjectID      uuid.UUID `json:"project_id" validate:"required" swaggertype:"string" format:"uuid"`
	RecipientEmail string    `json:"recipient_email" validate:"required,email"`
	Message        string    `json:"message" validate:"required,min=1,max=4000"`
}

type InquiryResponse struct {
	ID             uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	ProjectID      uuid.UUID `json:"project_id" swaggertype:"string" format:"uuid"`
	SenderID       uuid.UUID `json:"sender_id" swaggertype:"string" format:"uuid"`
	RecipientEmail string    `json:"recipient_email"`
	Message        string    `json:"message"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type SubmitQuoteRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Message     string `json:"message,omitempty" validate:"omitempty,max=4000"`
}

type QuoteResponse struct {
	ID          uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	InquiryID   uuid.UUID `json:"inquiry_id" swaggertype:"string" format:"uuid"`
	AmountCents int64     `json:"amount_cents"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
