package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/util"
	"ativflow_backend/pkg/logger"
	"ativflow_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const statisticsCacheTTL = 5 * time.Minute

type QuestionService struct {
	Repo         *repository.QuestionRepository
	ActivityRepo *repository.ActivityRepository
	rdb          *redis.Client
}

func NewQuestionService(repo *repository.QuestionRepository, activityRepo *repository.ActivityRepository, rdb *redis.Client) *QuestionService {
	return &QuestionService{Repo: repo, ActivityRepo: activityRepo, rdb: rdb}
}

type QuestionRequest struct {
	Prompt    string             `json:"prompt" binding:"required"`
	Type      model.QuestionType `json:"type"`
	Choices   []string           `json:"choices"`
	AnswerKey *model.AnswerKey   `json:"answerKey"`
	Weight    *float64           `json:"weight"`
	Order     *int               `json:"order"`
}

// requireMultipleChoice loads the activity and checks it accepts questions.
func (s *QuestionService) requireMultipleChoice(activityID uint) (*model.Activity, error) {
	activity, err := s.ActivityRepo.FindByID(activityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	if activity.Kind != model.ActivityMultipleChoice {
		return nil, util.ErrNotMultipleChoice
	}
	return activity, nil
}

func (s *QuestionService) CreateQuestion(activityID uint, req QuestionRequest) (*model.Question, error) {
	if _, err := s.requireMultipleChoice(activityID); err != nil {
		return nil, err
	}

	qType := req.Type
	if qType == "" {
		qType = model.QuestionSingle
	}
	if !model.ValidQuestionType(qType) {
		return nil, fmt.Errorf("invalid question type %q", req.Type)
	}

	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}
	if weight < 0 {
		return nil, errors.New("weight must not be negative")
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	}

	q := &model.Question{
		ActivityID: activityID,
		Prompt:     req.Prompt,
		Type:       qType,
		Choices:    req.Choices,
		AnswerKey:  req.AnswerKey,
		Weight:     weight,
		Order:      order,
	}
	if q.Type == model.QuestionEssay {
		q.AnswerKey = nil
	}
	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

// UpdateQuestion edits a question in place. Changing the answer key does not
// re-grade attempts recorded before the edit.
func (s *QuestionService) UpdateQuestion(id uint, req QuestionRequest) (*model.Question, error) {
	q, err := s.Repo.FindQuestionByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Prompt != "" {
		q.Prompt = req.Prompt
	}
	if req.Type != "" {
		if !model.ValidQuestionType(req.Type) {
			return nil, fmt.Errorf("invalid question type %q", req.Type)
		}
		q.Type = req.Type
	}
	if req.Choices != nil {
		q.Choices = req.Choices
	}
	if req.AnswerKey != nil {
		q.AnswerKey = req.AnswerKey
	}
	if req.Weight != nil {
		if *req.Weight < 0 {
			return nil, errors.New("weight must not be negative")
		}
		q.Weight = *req.Weight
	}
	if req.Order != nil {
		q.Order = *req.Order
	}
	if q.Type == model.QuestionEssay {
		q.AnswerKey = nil
	}

	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteQuestion(id uint) error {
	if _, err := s.Repo.FindQuestionByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQuestionNotFound
	} else if err != nil {
		return err
	}
	return s.Repo.DeleteQuestion(id)
}

// StudentQuestion is a question as shown to students: no answer key.
type StudentQuestion struct {
	ID      uint               `json:"id"`
	Prompt  string             `json:"prompt"`
	Type    model.QuestionType `json:"type"`
	Choices model.StringList   `json:"choices"`
	Weight  float64            `json:"weight"`
	Order   int                `json:"order"`
}

func (s *QuestionService) ListQuestions(activityID uint, includeKey bool) (interface{}, error) {
	if _, err := s.requireMultipleChoice(activityID); err != nil {
		return nil, err
	}

	qs, err := s.Repo.ListByActivity(activityID)
	if err != nil {
		return nil, err
	}
	if includeKey {
		return qs, nil
	}

	res := make([]StudentQuestion, len(qs))
	for i, q := range qs {
		res[i] = StudentQuestion{
			ID:      q.ID,
			Prompt:  q.Prompt,
			Type:    q.Type,
			Choices: q.Choices,
			Weight:  q.Weight,
			Order:   q.Order,
		}
	}
	return res, nil
}

type AnswerSubmission struct {
	QuestionID uint            `json:"questionId" binding:"required"`
	Answer     json.RawMessage `json:"answer"`
}

type BatchResult struct {
	Attempts       []model.AnswerAttempt `json:"attempts"`
	PointsEarned   float64               `json:"pointsEarned"`
	PointsPossible float64               `json:"pointsPossible"`
	Percentage     float64               `json:"percentage"`
}

// SubmitAnswers grades a batch of answers for one student in submission
// order. Unknown questions, questions from other activities and questions the
// student already answered are skipped, never errors, so a retried batch is
// safe to replay. All writes happen in one transaction.
func (s *QuestionService) SubmitAnswers(activityID, studentID uint, answers []AnswerSubmission) (*BatchResult, error) {
	if _, err := s.requireMultipleChoice(activityID); err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, util.ErrNoAnswersProvided
	}

	result := &BatchResult{Attempts: []model.AnswerAttempt{}}

	err := s.Repo.DB.Transaction(func(tx *gorm.DB) error {
		for _, sub := range answers {
			q, err := s.Repo.FindQuestionByID(sub.QuestionID)
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && q.ActivityID != activityID) {
				continue
			}
			if err != nil {
				return err
			}

			exists, err := s.Repo.AttemptExists(tx, q.ID, studentID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			correct, points := GradeAnswer(q, sub.Answer)

			attempt := model.AnswerAttempt{
				QuestionID:     q.ID,
				StudentID:      studentID,
				ActivityID:     activityID,
				Answer:         sub.Answer,
				Correct:        correct,
				PointsObtained: points,
			}
			if err := s.Repo.CreateAttempt(tx, &attempt); err != nil {
				// The unique index turns a concurrent duplicate into a
				// constraint violation; treat it as already answered.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				return err
			}

			monitoring.GradedAnswers.WithLabelValues(gradeLabel(correct)).Inc()

			result.Attempts = append(result.Attempts, attempt)
			result.PointsEarned += points
			result.PointsPossible += q.Weight
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.PointsPossible > 0 {
		result.Percentage = util.Round2(result.PointsEarned / result.PointsPossible * 100)
	}
	result.PointsEarned = util.Round2(result.PointsEarned)
	result.PointsPossible = util.Round2(result.PointsPossible)

	s.invalidateStatistics(activityID)

	return result, nil
}

func gradeLabel(correct *bool) string {
	switch {
	case correct == nil:
		return "manual"
	case *correct:
		return "correct"
	default:
		return "incorrect"
	}
}

func (s *QuestionService) MyAnswers(activityID, studentID uint) ([]model.AnswerAttempt, error) {
	return s.Repo.ListAttemptsByStudent(activityID, studentID)
}

type QuestionStat struct {
	QuestionID       uint    `json:"questionId"`
	Prompt           string  `json:"prompt"`
	TotalResponses   int     `json:"totalResponses"`
	CorrectResponses int     `json:"correctResponses"`
	AccuracyRate     float64 `json:"accuracyRate"`
}

// ActivityStatistics aggregates per-question accuracy across all students,
// preserving the question display order. Results are cached briefly in Redis;
// submissions invalidate the cache.
func (s *QuestionService) ActivityStatistics(activityID uint) ([]QuestionStat, error) {
	if _, err := s.requireMultipleChoice(activityID); err != nil {
		return nil, err
	}

	if cached, ok := s.cachedStatistics(activityID); ok {
		return cached, nil
	}

	qs, err := s.Repo.ListByActivity(activityID)
	if err != nil {
		return nil, err
	}

	stats := make([]QuestionStat, 0, len(qs))
	for _, q := range qs {
		attempts, err := s.Repo.ListAttemptsByQuestion(q.ID)
		if err != nil {
			return nil, err
		}

		correct := 0
		for _, a := range attempts {
			if a.Correct != nil && *a.Correct {
				correct++
			}
		}

		rate := 0.0
		if len(attempts) > 0 {
			rate = util.Round2(float64(correct) / float64(len(attempts)) * 100)
		}

		stats = append(stats, QuestionStat{
			QuestionID:       q.ID,
			Prompt:           q.Prompt,
			TotalResponses:   len(attempts),
			CorrectResponses: correct,
			AccuracyRate:     rate,
		})
	}

	s.storeStatistics(activityID, stats)

	return stats, nil
}

func statisticsKey(activityID uint) string {
	return fmt.Sprintf("stats:activity:%d", activityID)
}

func (s *QuestionService) cachedStatistics(activityID uint) ([]QuestionStat, bool) {
	if s.rdb == nil {
		return nil, false
	}
	data, err := s.rdb.Get(context.Background(), statisticsKey(activityID)).Bytes()
	if err != nil {
		return nil, false
	}
	var stats []QuestionStat
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false
	}
	return stats, true
}

func (s *QuestionService) storeStatistics(activityID uint, stats []QuestionStat) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.rdb.Set(context.Background(), statisticsKey(activityID), data, statisticsCacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache statistics", zap.Uint("activityId", activityID), zap.Error(err))
	}
}

func (s *QuestionService) invalidateStatistics(activityID uint) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(context.Background(), statisticsKey(activityID)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate statistics cache", zap.Uint("activityId", activityID), zap.Error(err))
	}
}
