// Package models holds the persisted records and the field schemas that guard them.
package models

import (
	"time"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/validate"
)

type Customer struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	IdentDocument string     `gorm:"size:14;not null;uniqueIndex" json:"ident_document"`
	BirthDate     *time.Time `gorm:"type:date" json:"birth_date"`
	StreetName    string     `gorm:"size:40;not null" json:"street_name"`
	HouseNumber   string     `gorm:"size:10;not null" json:"house_number"`
	Complements   *string    `gorm:"size:20" json:"complements"`
	District      string     `gorm:"size:25;not null" json:"district"`
	Municipality  string     `gorm:"size:40;not null" json:"municipality"`
	State         string     `gorm:"size:2;not null" json:"state"`
	Phone         string     `gorm:"size:15;not null" json:"phone"`
	Email         string     `gorm:"size:50;not null" json:"email"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Cars []Car `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"cars,omitempty"`
}

type Car struct {
	ID              int64      `gorm:"primaryKey" json:"id"`
	Brand           string     `gorm:"size:25;not null" json:"brand"`
	Model           string     `gorm:"size:25;not null" json:"model"`
	Color           string     `gorm:"size:20;not null" json:"color"`
	YearManufacture int64      `gorm:"not null" json:"year_manufacture"`
	Imported        bool       `gorm:"not null" json:"imported"`
	Plates          string     `gorm:"size:8;not null;uniqueIndex" json:"plates"`
	SellingDate     *time.Time `gorm:"type:date" json:"selling_date"`
	SellingPrice    *float64   `gorm:"type:decimal(18,2)" json:"selling_price"`
	CustomerID      *int64     `gorm:"index" json:"customer_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Customer *Customer `json:"customer,omitempty"`
}

// User.Password holds a bcrypt hash.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Fullname  string    `gorm:"size:50;not null" json:"fullname"`
	Username  string    `gorm:"size:20;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:50;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:200;not null" json:"-"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists the models in migration order.
func All() []any {
	return []any{&Customer{}, &Car{}, &User{}}
}

func NewCustomer(v validate.Values) *Customer {
	return &Customer{
		Name:          v.String("name"),
		IdentDocument: v.String("ident_document"),
		BirthDate:     v.DatePtr("birth_date"),
		StreetName:    v.String("street_name"),
		HouseNumber:   v.String("house_number"),
		Complements:   v.StringPtr("complements"),
		District:      v.String("district"),
		Municipality:  v.String("municipality"),
		State:         v.String("state"),
		Phone:         v.String("phone"),
		Email:         v.String("email"),
	}
}

// NewCar maps validated values; a nil customer_id clears the association.
func NewCar(v validate.Values) *Car {
	return &Car{
		Brand:           v.String("brand"),
		Model:           v.String("model"),
		Color:           v.String("color"),
		YearManufacture: v.Int("year_manufacture"),
		Imported:        v.Bool("imported"),
		Plates:          v.String("plates"),
		SellingDate:     v.DatePtr("selling_date"),
		SellingPrice:    v.FloatPtr("selling_price"),
		CustomerID:      v.IntPtr("customer_id"),
	}
}

// NewUser copies the plain-text password; callers hash it before storing.
func NewUser(v validate.Values) *User {
	return &User{
		Fullname: v.String("fullname"),
		Username: v.String("username"),
		Email:    v.String("email"),
		Password: v.String("password"),
		IsAdmin:  v.Bool("is_admin"),
	}
}
