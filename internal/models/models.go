package models

import "time"

type User struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"         json:"id"`
	Username  string     `gorm:"size:80;uniqueIndex;not null"     json:"username"`
	Password  string     `gorm:"not null"                         json:"-"`
	CartItems []CartItem `gorm:"constraint:OnDelete:CASCADE;"     json:"-"`
	Sessions  []Session  `gorm:"constraint:OnDelete:CASCADE;"     json:"-"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:100;not null"        json:"nome"`
	Price       float64 `gorm:"not null"                 json:"preco"`
	Description *string `gorm:"type:text"                json:"descricao"`
}

// CartItem carries no quantity: every add is its own row. ProductID has no
// database constraint so products can be deleted while referenced.
type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint `gorm:"index;not null"           json:"user_id"`
	ProductID uint `gorm:"index;not null"           json:"product_id"`
}

type Session struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JTI       string    `gorm:"size:36;uniqueIndex;not null" json:"jti"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	TokenHash string    `gorm:"size:64;not null"         json:"-"`
	ExpiresAt int64     `gorm:"index;not null"           json:"expires_at"`
	Revoked   bool      `gorm:"default:false"            json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Active(now time.Time) bool {
	return !s.Revoked && now.Unix() < s.ExpiresAt
}

// All returns every model that is part of the schema, in migration order.
func All() []any {
	return []any{&User{}, &Product{}, &CartItem{}, &Session{}}
}
