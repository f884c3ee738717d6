package model

import "time"

type FollowUpStatus string

const (
	FollowUpPending  FollowUpStatus = "pending"
	FollowUpReviewed FollowUpStatus = "reviewed"
)

// FollowUp is a student's daily journal entry, one per student per date.
// swagger:model FollowUp
type FollowUp struct {
	BaseModel
	StudentID      uint           `gorm:"index;not null;uniqueIndex:idx_followup_student_date" json:"studentId"`
	Date           time.Time      `gorm:"type:date;not null;uniqueIndex:idx_followup_student_date" json:"date"`
	ActivityDone   string         `gorm:"type:text;not null" json:"activityDone"`
	LessonSubject  string         `gorm:"size:255" json:"lessonSubject"`
	Responsibility string         `gorm:"size:255" json:"responsibility"`
	Status         FollowUpStatus `gorm:"type:varchar(30);default:'pending'" json:"status"`
	Justification  string         `gorm:"type:text" json:"justification"`
	Feedback       string         `gorm:"type:text" json:"feedback"`
	Reviewed       bool           `gorm:"default:false" json:"reviewed"`
	// Editable is granted by a teacher; students cannot amend a submitted
	// entry on their own.
	Editable bool `gorm:"default:false" json:"editable"`
}

func (FollowUp) TableName() string {
	return "followups"
}
