package service

import (
	"errors"
	"sort"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/util"

	"gorm.io/gorm"
)

type ReportService struct {
	UserRepo     *repository.UserRepository
	ActivityRepo *repository.ActivityRepository
	DeliveryRepo *repository.DeliveryRepository
	QuestionRepo *repository.QuestionRepository
}

func NewReportService(userRepo *repository.UserRepository, activityRepo *repository.ActivityRepository, deliveryRepo *repository.DeliveryRepository, questionRepo *repository.QuestionRepository) *ReportService {
	return &ReportService{
		UserRepo:     userRepo,
		ActivityRepo: activityRepo,
		DeliveryRepo: deliveryRepo,
		QuestionRepo: questionRepo,
	}
}

type StudentPerformance struct {
	StudentID    uint    `json:"studentId"`
	Name         string  `json:"name"`
	Deliveries   int     `json:"deliveries"`
	Evaluated    int     `json:"evaluated"`
	Late         int     `json:"late"`
	AverageScore float64 `json:"averageScore"`
	// DeliveryRate is deliveries over the number of active activities
	// for the class, as a percentage.
	DeliveryRate float64 `json:"deliveryRate"`
	Ranking      int     `json:"ranking"`
}

type PerformanceReport struct {
	Class        string               `json:"class"`
	Activities   int                  `json:"activities"`
	Students     []StudentPerformance `json:"students"`
	AverageScore float64              `json:"averageScore"`
	DeliveryRate float64              `json:"deliveryRate"`
}

// ClassPerformance aggregates delivery counts and evaluation scores for every
// student of a class, ranked by average score.
func (s *ReportService) ClassPerformance(class string) (*PerformanceReport, error) {
	students, err := s.UserRepo.ListStudentsByClass(class)
	if err != nil {
		return nil, err
	}

	active := true
	total, err := s.ActivityRepo.Count(repository.ActivityFilter{Class: class, Active: &active})
	if err != nil {
		return nil, err
	}
	activityCount := int(total)

	report := &PerformanceReport{Class: class, Activities: activityCount}

	var sumScores float64
	var scoredCount int
	var totalDeliveries int

	for _, student := range students {
		deliveries, err := s.DeliveryRepo.ListAll(repository.DeliveryFilter{StudentID: student.ID})
		if err != nil {
			return nil, err
		}

		perf := StudentPerformance{StudentID: student.ID, Name: student.Name, Deliveries: len(deliveries)}
		var studentSum float64
		var studentScored int
		for _, d := range deliveries {
			if d.Status == model.DeliveryLate {
				perf.Late++
			}
			if d.Status == model.DeliveryEvaluated {
				perf.Evaluated++
			}
			if d.Score != nil {
				studentSum += *d.Score
				studentScored++
			}
		}
		if studentScored > 0 {
			perf.AverageScore = util.Round2(studentSum / float64(studentScored))
		}
		if activityCount > 0 {
			perf.DeliveryRate = util.Round2(float64(len(deliveries)) / float64(activityCount) * 100)
		}

		sumScores += studentSum
		scoredCount += studentScored
		totalDeliveries += len(deliveries)
		report.Students = append(report.Students, perf)
	}

	sort.SliceStable(report.Students, func(i, j int) bool {
		return report.Students[i].AverageScore > report.Students[j].AverageScore
	})
	for i := range report.Students {
		report.Students[i].Ranking = i + 1
	}

	if scoredCount > 0 {
		report.AverageScore = util.Round2(sumScores / float64(scoredCount))
	}
	if activityCount > 0 && len(students) > 0 {
		report.DeliveryRate = util.Round2(float64(totalDeliveries) / float64(activityCount*len(students)) * 100)
	}

	return report, nil
}

type ActivityReport struct {
	ActivityID   uint    `json:"activityId"`
	Title        string  `json:"title"`
	Deliveries   int     `json:"deliveries"`
	Evaluated    int     `json:"evaluated"`
	Late         int     `json:"late"`
	AverageScore float64 `json:"averageScore"`
}

// ActivitySummary reports delivery and evaluation numbers for one activity.
func (s *ReportService) ActivitySummary(activityID uint) (*ActivityReport, error) {
	activity, err := s.ActivityRepo.FindByID(activityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	deliveries, err := s.DeliveryRepo.ListAll(repository.DeliveryFilter{ActivityID: activityID})
	if err != nil {
		return nil, err
	}

	report := &ActivityReport{ActivityID: activityID, Title: activity.Title, Deliveries: len(deliveries)}
	var sum float64
	var scored int
	for _, d := range deliveries {
		if d.Status == model.DeliveryLate {
			report.Late++
		}
		if d.Status == model.DeliveryEvaluated {
			report.Evaluated++
		}
		if d.Score != nil {
			sum += *d.Score
			scored++
		}
	}
	if scored > 0 {
		report.AverageScore = util.Round2(sum / float64(scored))
	}
	return report, nil
}
