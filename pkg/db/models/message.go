package models

import "time"

// Message is a direct message between two users, optionally tied to an order.
type Message struct {
	ID         string    `gorm:"column:id;primaryKey" json:"message_id"`
	FromUserID string    `gorm:"column:from_user_id;not null;index" json:"from_user_id"`
	ToUserID   string    `gorm:"column:to_user_id;not null;index" json:"to_user_id"`
	OrderID    *string   `gorm:"column:order_id" json:"order_id"`
	Body       string    `gorm:"column:message;not null" json:"message"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
