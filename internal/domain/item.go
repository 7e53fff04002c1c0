package domain

import "time"

type Item struct {
	ID           int64
	Title        string
	Status       ItemStatus
	Price        float64
	WeeklyPrice  *float64
	MonthlyPrice *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (i *Item) IsPublished() bool {
	return i.Status == ItemPublished
}
