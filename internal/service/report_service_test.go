package service

import (
	"errors"
	"testing"
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/util"
)

func TestClassPerformanceRanking(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	a1 := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(time.Hour))
	a2 := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(time.Hour))

	alice := env.seedStudent(t, "alice", "3A")
	bob := env.seedStudent(t, "bob", "3A")

	deliverySvc := NewDeliveryService(env.deliveries, env.activities, env.groups, env.notification)
	reportSvc := NewReportService(env.users, env.activities, env.deliveries, env.questions)

	evaluate := func(studentID, activityID uint, score float64) {
		d, err := deliverySvc.Create(studentID, DeliveryRequest{ActivityID: activityID})
		if err != nil {
			t.Fatalf("create delivery: %v", err)
		}
		if _, _, err := deliverySvc.Evaluate(d.ID, teacher.ID, EvaluationRequest{Score: &score}); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}

	evaluate(alice.ID, a1.ID, 9)
	evaluate(alice.ID, a2.ID, 7)
	evaluate(bob.ID, a1.ID, 5)

	report, err := reportSvc.ClassPerformance("3A")
	if err != nil {
		t.Fatalf("ClassPerformance: %v", err)
	}

	if report.Activities != 2 {
		t.Fatalf("activities = %d, want 2", report.Activities)
	}
	if len(report.Students) != 2 {
		t.Fatalf("students = %d, want 2", len(report.Students))
	}

	first := report.Students[0]
	if first.StudentID != alice.ID || first.Ranking != 1 {
		t.Fatalf("first = %+v, want alice ranked 1", first)
	}
	if first.AverageScore != 8 {
		t.Fatalf("alice avg = %v, want 8", first.AverageScore)
	}
	if first.DeliveryRate != 100 {
		t.Fatalf("alice rate = %v, want 100", first.DeliveryRate)
	}

	second := report.Students[1]
	if second.StudentID != bob.ID || second.Ranking != 2 {
		t.Fatalf("second = %+v, want bob ranked 2", second)
	}
	if second.DeliveryRate != 50 {
		t.Fatalf("bob rate = %v, want 50", second.DeliveryRate)
	}

	// Overall: 3 deliveries / (2 activities * 2 students) = 75%, mean of
	// the three scores = 7.
	if report.DeliveryRate != 75 {
		t.Fatalf("class rate = %v, want 75", report.DeliveryRate)
	}
	if report.AverageScore != 7 {
		t.Fatalf("class avg = %v, want 7", report.AverageScore)
	}
}

func TestActivitySummary(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	activity := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(-time.Hour))
	alice := env.seedStudent(t, "alice", "3A")
	bob := env.seedStudent(t, "bob", "3A")

	deliverySvc := NewDeliveryService(env.deliveries, env.activities, env.groups, env.notification)
	reportSvc := NewReportService(env.users, env.activities, env.deliveries, env.questions)

	d1, err := deliverySvc.Create(alice.ID, DeliveryRequest{ActivityID: activity.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := deliverySvc.Create(bob.ID, DeliveryRequest{ActivityID: activity.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}

	score := 6.0
	if _, _, err := deliverySvc.Evaluate(d1.ID, teacher.ID, EvaluationRequest{Score: &score}); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	report, err := reportSvc.ActivitySummary(activity.ID)
	if err != nil {
		t.Fatalf("ActivitySummary: %v", err)
	}
	if report.Deliveries != 2 || report.Evaluated != 1 {
		t.Fatalf("report = %+v", report)
	}
	// Deadline already passed, so the unevaluated delivery is late.
	if report.Late != 1 {
		t.Fatalf("late = %d, want 1", report.Late)
	}
	if report.AverageScore != 6 {
		t.Fatalf("avg = %v, want 6", report.AverageScore)
	}

	if _, err := reportSvc.ActivitySummary(9999); !errors.Is(err, util.ErrActivityNotFound) {
		t.Fatalf("missing: err = %v, want ErrActivityNotFound", err)
	}
}

func TestReportsAggregateBeyondPageSize(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	activity := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(time.Hour))
	alice := env.seedStudent(t, "alice", "3A")

	score := 8.0
	for i := 0; i < util.MaxLimit+20; i++ {
		d := &model.Delivery{
			Reference:  model.GenerateUUID(),
			ActivityID: activity.ID,
			StudentID:  &alice.ID,
			Status:     model.DeliveryEvaluated,
			Score:      &score,
		}
		if err := env.deliveries.Create(d); err != nil {
			t.Fatalf("seed delivery %d: %v", i, err)
		}
	}

	reportSvc := NewReportService(env.users, env.activities, env.deliveries, env.questions)

	summary, err := reportSvc.ActivitySummary(activity.ID)
	if err != nil {
		t.Fatalf("ActivitySummary: %v", err)
	}
	if summary.Deliveries != util.MaxLimit+20 {
		t.Fatalf("deliveries = %d, want %d", summary.Deliveries, util.MaxLimit+20)
	}
	if summary.Evaluated != util.MaxLimit+20 {
		t.Fatalf("evaluated = %d, want %d", summary.Evaluated, util.MaxLimit+20)
	}
	if summary.AverageScore != 8 {
		t.Fatalf("avg = %v, want 8", summary.AverageScore)
	}

	report, err := reportSvc.ClassPerformance("3A")
	if err != nil {
		t.Fatalf("ClassPerformance: %v", err)
	}
	if len(report.Students) != 1 || report.Students[0].Deliveries != util.MaxLimit+20 {
		t.Fatalf("students = %+v, want alice with %d deliveries", report.Students, util.MaxLimit+20)
	}
}
