package domain

import (
	"time"
)

type Customer struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Email     string    `gorm:"index" json:"email" form:"email"`
	ImageUrl  string    `json:"image_url" form:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return "customers"
}
