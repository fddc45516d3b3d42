package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	Banned       bool      `gorm:"default:false"            json:"banned"`
	IsAdmin      bool      `gorm:"default:false"            json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is the server-side record behind the opaque cookie token.
// The token itself is never echoed in a JSON body.
type Session struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"unique;not null"          json:"-"`
	UserID    uint      `gorm:"index;not null"           json:"userId"`
	Username  string    `gorm:"not null"                 json:"username"`
	IsAdmin   bool      `gorm:"default:false"            json:"isAdmin"`
	ExpiresAt int64     `gorm:"not null"                 json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"unique;not null"          json:"name"`
	Price    float64 `gorm:"not null"                 json:"price"`
	Category string  `gorm:"not null"                 json:"category"`
	Img      string  `json:"img"`
}

type CartLine struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

// Order keeps the submitted cart as an embedded JSON document; the totals
// are pass-through strings from the storefront, not recomputed server-side.
type Order struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        *uint      `gorm:"index"                    json:"userId"`
	Cart          []CartLine `gorm:"serializer:json"          json:"cart"`
	Address       string     `gorm:"not null"                 json:"address"`
	PaymentMethod string     `gorm:"not null"                 json:"paymentMethod"`
	TotalCost     string     `json:"totalCost"`
	TotalItems    string     `json:"totalItems"`
	Status        string     `gorm:"not null;default:Pending" json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type Feedback struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	Email    string `gorm:"not null"                 json:"email"`
	Rating   int    `gorm:"not null"                 json:"rating"`
	Feedback string `gorm:"not null"                 json:"feedback"`
}

type Contact struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"not null"                 json:"name"`
	Email   string `gorm:"not null"                 json:"email"`
	Phone   string `gorm:"not null"                 json:"phone"`
	Message string `gorm:"not null"                 json:"message"`
}
