package model

import (
	"encoding/json"
	"time"
)

type ActivityKind string

const (
	ActivityIndividual     ActivityKind = "individual"
	ActivityGroup          ActivityKind = "group"
	ActivityMultipleChoice ActivityKind = "multiple_choice"
)

// swagger:model Activity
type Activity struct {
	BaseModel
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Kind        ActivityKind    `gorm:"type:varchar(30);not null" json:"kind"`
	Deadline    time.Time       `gorm:"not null" json:"deadline"`
	CreatedBy   uint            `gorm:"index;not null" json:"createdBy"`
	Class       string          `gorm:"size:20;index" json:"class"`
	Active      bool            `gorm:"default:true" json:"active"`
	Config      json.RawMessage `gorm:"type:json" json:"config,omitempty"`
}

func (Activity) TableName() string {
	return "activities"
}

func ValidActivityKind(k ActivityKind) bool {
	switch k {
	case ActivityIndividual, ActivityGroup, ActivityMultipleChoice:
		return true
	}
	return false
}
