package model

import "time"

const MaxNameLength = 255

type Item struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	Name       string    `gorm:"size:255;not null"`
	IsInFridge bool      `gorm:"column:is_in_fridge;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (Item) TableName() string {
	return "fridge_items"
}
