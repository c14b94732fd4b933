package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents the 'users' table
type User struct {
	ID           uint64         `gorm:"primaryKey" json:"id"`
	FirstName    string         `gorm:"size:100;not null" json:"first_name"`
	LastName     string         `gorm:"size:100;not null" json:"last_name"`
	Email        string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // never serialized back to clients
	Phone        string         `gorm:"column:phone_number;size:20;unique" json:"phone"`
	Role         string         `gorm:"size:20;default:user" json:"role"` // user, admin
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	FCMToken     string         `gorm:"size:255" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Wallet        *Wallet        `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
	Claims        []Claim        `gorm:"foreignKey:UserID" json:"claims,omitempty"`
	Subscriptions []Subscription `gorm:"foreignKey:UserID" json:"subscriptions,omitempty"`
}

type RegisterInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FCMToken string `json:"fcm_token"` // optional device token for push notifications
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}
