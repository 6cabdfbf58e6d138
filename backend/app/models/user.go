package models

import "user-grid/network"

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"size:254;not null"`
	Age       int    `gorm:"not null"`
	Role      string `gorm:"size:32;not null;default:user"`
	CreatedAt string `gorm:"column:created_at;size:64"` // kept as sent, ISO-8601
}

func (u User) Wire() network.User {
	return network.User{
		ID:        int(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Role:      network.Role(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
