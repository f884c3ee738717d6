package repository

import (
	"errors"

	"ativflow_backend/internal/model"

	"gorm.io/gorm"
)

// QuestionRepository holds both the question bank and the answer-attempt
// ledger; the two always change together during batch grading.
type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *QuestionRepository) UpdateQuestion(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

// ListByActivity returns questions in display order, insertion breaking ties.
func (r *QuestionRepository) ListByActivity(activityID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("activity_id = ?", activityID).
		Order("`order` asc, id asc").
		Find(&qs).Error
	return qs, err
}

// AttemptExists reports whether the student already answered the question.
func (r *QuestionRepository) AttemptExists(tx *gorm.DB, questionID, studentID uint) (bool, error) {
	if tx == nil {
		tx = r.DB
	}
	var attempt model.AnswerAttempt
	err := tx.Where("question_id = ? AND student_id = ?", questionID, studentID).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *QuestionRepository) CreateAttempt(tx *gorm.DB, attempt *model.AnswerAttempt) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Create(attempt).Error
}

func (r *QuestionRepository) ListAttemptsByStudent(activityID, studentID uint) ([]model.AnswerAttempt, error) {
	var attempts []model.AnswerAttempt
	err := r.DB.Where("activity_id = ? AND student_id = ?", activityID, studentID).
		Order("id asc").
		Find(&attempts).Error
	return attempts, err
}

func (r *QuestionRepository) ListAttemptsByQuestion(questionID uint) ([]model.AnswerAttempt, error) {
	var attempts []model.AnswerAttempt
	err := r.DB.Where("question_id = ?", questionID).Find(&attempts).Error
	return attempts, err
}
