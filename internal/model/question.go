package model

import "encoding/json"

// QuestionType is a closed set. Grading switches over it exhaustively; adding a
// type is a compile-visible change in grading.go.
type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
	QuestionEssay    QuestionType = "essay"
)

// Question belongs to a multiple-choice activity.
// swagger:model Question
type Question struct {
	BaseModel
	ActivityID uint         `gorm:"index;not null" json:"activityId"`
	Prompt     string       `gorm:"type:text;not null" json:"prompt"`
	Type       QuestionType `gorm:"type:varchar(30);default:'single'" json:"type"`
	Choices    StringList   `gorm:"type:json" json:"choices"`
	// AnswerKey is nil when the instructor never recorded a key, or for essay
	// questions, which are never auto-graded.
	AnswerKey *AnswerKey `gorm:"type:json" json:"answerKey,omitempty"`
	Weight    float64    `gorm:"type:decimal(5,2);default:1" json:"weight"`
	Order     int        `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}

func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionSingle, QuestionMultiple, QuestionEssay:
		return true
	}
	return false
}

// AnswerAttempt is one student's graded response to one question. Attempts are
// append-only and unique per (question, student); the index backs the
// skip-if-exists semantics of batch submission under concurrent retries.
// swagger:model AnswerAttempt
type AnswerAttempt struct {
	BaseModel
	QuestionID uint            `gorm:"not null;uniqueIndex:idx_attempt_question_student" json:"questionId"`
	StudentID  uint            `gorm:"not null;uniqueIndex:idx_attempt_question_student;index" json:"studentId"`
	ActivityID uint            `gorm:"index;not null" json:"activityId"`
	Answer     json.RawMessage `gorm:"type:json" json:"answer"`
	// Correct is nil for essay answers, which are left to manual review.
	Correct        *bool   `json:"correct"`
	PointsObtained float64 `gorm:"type:decimal(5,2);default:0" json:"pointsObtained"`
}

func (AnswerAttempt) TableName() string {
	return "answer_attempts"
}
