package finance

import "github.com/shopspring/decimal"

type CreateRecordRequest struct {
	Title    string           `json:"title" validate:"required"`
	Amount   *decimal.Decimal `json:"amount" validate:"required"`
	Type     string           `json:"type" validate:"required,record_type"`
	Category string           `json:"category" validate:"required,record_category"`
}

// UpdateRecordRequest carries a partial update; nil fields keep their stored value.
type UpdateRecordRequest struct {
	Title    *string          `json:"title" validate:"omitempty,min=1"`
	Amount   *decimal.Decimal `json:"amount"`
	Type     *string          `json:"type" validate:"omitempty,record_type"`
	Category *string          `json:"category" validate:"omitempty,record_category"`
}

// RawFilter is the untyped query-string form of a filter, every field optional.
type RawFilter struct {
	Type      string `query:"type"`
	Category  string `query:"category"`
	Keyword   string `query:"keyword"`
	MinAmount string `query:"minAmount"`
	MaxAmount string `query:"maxAmount"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Month     string `query:"month"`
	Year      string `query:"year"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RecordResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
	Count   int              `json:"count"`
}
