package models

import "time"

type Lead struct {
	ID          string    `json:"id" db:"id"`
	OrgID       string    `json:"org_id" db:"org_id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Order       string    `json:"order" db:"order_description"`
	Price       int       `json:"price" db:"price"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	Comment     string    `json:"comment" db:"comment"`
	ManagerID   *string   `json:"manager_id" db:"manager_id"`
	StatusID    *string   `json:"status_id" db:"status_id"`
	DateCreated time.Time `json:"date_created" db:"date_created"`
	DateUpdated time.Time `json:"date_updated" db:"date_updated"`
}

type LeadInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Order     string  `json:"order"`
	Price     int     `json:"price"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Comment   string  `json:"comment"`
	ManagerID *string `json:"manager_id"`
	StatusID  *string `json:"status_id"`
}
