package domain

import (
	"time"
)

// Invoice amounts are stored in minor units (cents), Date is a calendar
// day in YYYY-MM-DD form.
type Invoice struct {
	ID         int64     `json:"id,string" form:"id"`
	CustomerId int64     `gorm:"index" json:"customer_id,string" form:"customer_id"`
	Amount     int64     `gorm:"index" json:"amount" form:"amount"`
	Status     string    `gorm:"index" json:"status" form:"status"`
	Date       string    `gorm:"size:10;index" json:"date" form:"date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Invoice) TableName() string {
	return "invoices"
}

const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Revenue is the monthly rollup of paid invoices shown on the dashboard chart.
type Revenue struct {
	ID      int64  `json:"id,string"`
	Month   string `gorm:"size:3;uniqueIndex" json:"month"`
	Revenue int64  `json:"revenue"`
}

// TableName Specify table name
func (Revenue) TableName() string {
	return "revenue"
}
