package service

import (
	"testing"
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db           *gorm.DB
	users        *repository.UserRepository
	activities   *repository.ActivityRepository
	questions    *repository.QuestionRepository
	deliveries   *repository.DeliveryRepository
	groups       *repository.GroupRepository
	followUps    *repository.FollowUpRepository
	notification *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	// A single connection keeps the shared in-memory database alive and
	// isolated per test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&model.User{},
		&model.Activity{},
		&model.Question{},
		&model.AnswerAttempt{},
		&model.Delivery{},
		&model.Evaluation{},
		&model.Group{},
		&model.GroupMember{},
		&model.FollowUp{},
		&model.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &testEnv{
		db:           db,
		users:        userRepo,
		activities:   repository.NewActivityRepository(db),
		questions:    repository.NewQuestionRepository(db),
		deliveries:   repository.NewDeliveryRepository(db),
		groups:       repository.NewGroupRepository(db),
		followUps:    repository.NewFollowUpRepository(db),
		notification: NewNotificationService(notificationRepo, userRepo, nil),
	}
}

func (e *testEnv) seedStudent(t *testing.T, name, class string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@test.local", Password: "x", Role: model.Student, Class: class, Active: true}
	if err := e.users.Create(u); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return u
}

func (e *testEnv) seedTeacher(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@test.local", Password: "x", Role: model.Teacher, Active: true}
	if err := e.users.Create(u); err != nil {
		t.Fatalf("seed teacher: %v", err)
	}
	return u
}

func (e *testEnv) seedActivity(t *testing.T, kind model.ActivityKind, createdBy uint, deadline time.Time) *model.Activity {
	t.Helper()
	a := &model.Activity{
		Title:       "Test activity",
		Description: "desc",
		Kind:        kind,
		Deadline:    deadline,
		CreatedBy:   createdBy,
		Class:       "3A",
		Active:      true,
	}
	if err := e.activities.Create(a); err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return a
}

func (e *testEnv) seedQuestion(t *testing.T, activityID uint, qType model.QuestionType, key *model.AnswerKey, weight float64, order int) *model.Question {
	t.Helper()
	q := &model.Question{
		ActivityID: activityID,
		Prompt:     "prompt",
		Type:       qType,
		Choices:    model.StringList{"A", "B", "C", "D"},
		AnswerKey:  key,
		Weight:     weight,
		Order:      order,
	}
	if err := e.questions.CreateQuestion(q); err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return q
}
