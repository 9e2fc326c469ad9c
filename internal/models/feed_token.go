package models

import "time"

// FeedToken authenticates a read-only calendar feed subscription. A token
// scoped to an employee sees only that employee's shifts plus open shifts;
// an unscoped token sees the whole published rota.
type FeedToken struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	Token      string `gorm:"type:varchar(36);uniqueIndex;not null" json:"token"`
	EmployeeID *uint  `gorm:"index" json:"employee_id"`
	Label      string `json:"label"`
	IsActive   bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FeedToken) TableName() string {
	return "feed_tokens"
}
