package model

import "time"

const (
	ExpenseCatering   = "CATERING"
	ExpenseSupplies   = "SUPPLIES"
	ExpenseSpeakerFee = "SPEAKER_FEE"
	ExpenseTravel     = "TRAVEL"
	ExpenseVenue      = "VENUE"
	ExpensePrinting   = "PRINTING"
	ExpenseOther      = "OTHER"
)

type Expense struct {
	ID          int64
	EventID     int64
	Description string
	Amount      float64
	Category    string
	Vendor      *string
	Notes       *string
	IsPaid      bool
	PaidDate    *time.Time
	CreatedAt   time.Time
}
