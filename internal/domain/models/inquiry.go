package models

import (
	"time"

	"github.com/google/uuid"
)

type InquiryStatus string

const (
	InquiryStatusPending  InquiryStatus = "pending"
	InquiryStatusQuoted   InquiryStatus = "quoted"
	InquiryStatusAccepted InquiryStatus = "accepted"
	InquiryStatusDeclined InquiryStatus = "declined"
)

type Inquiry struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	ProjectID      uuid.UUID     `db:"project_id" json:"project_id"`
	SenderID       uuid.UUID     `db:"sender_id" json:"sender_id"`
	RecipientEmail string        `db:"recipient_email" json:"recipient_email"`
	Message        string        `db:"message" json:"message"`
	Status         InquiryStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

type Quote struct {
	ID          uuid.UUID `db:"id" json:"id"`
	InquiryID   uuid.UUID `db:"inquiry_id" json:"inquiry_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Message     string    `db:"message" json:"message"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
