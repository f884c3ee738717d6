package service

import (
	"errors"
	"testing"
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/util"
)

func newDeliverySetup(t *testing.T) (*testEnv, *DeliveryService, *model.Activity, *model.Group, *model.User, []*model.User) {
	t.Helper()
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	activity := env.seedActivity(t, model.ActivityGroup, teacher.ID, time.Now().Add(time.Hour))

	leader := env.seedStudent(t, "leader", "3A")
	m1 := env.seedStudent(t, "m1", "3A")
	m2 := env.seedStudent(t, "m2", "3A")

	group := &model.Group{Name: "G1", ActivityID: activity.ID, LeaderID: &leader.ID, Status: model.GroupActive}
	if err := env.groups.Create(group); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	for _, u := range []*model.User{leader, m1, m2} {
		if err := env.groups.AddMember(&model.GroupMember{GroupID: group.ID, StudentID: u.ID}); err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}

	svc := NewDeliveryService(env.deliveries, env.activities, env.groups, env.notification)
	return env, svc, activity, group, leader, []*model.User{m1, m2}
}

func routeToLeader(t *testing.T, svc *DeliveryService, activityID, studentID, leaderID uint, files []string) *model.Delivery {
	t.Helper()
	d, err := svc.Create(studentID, DeliveryRequest{
		ActivityID:     activityID,
		FileURLs:       files,
		RoutedToLeader: true,
		ForwardedTo:    &leaderID,
	})
	if err != nil {
		t.Fatalf("route to leader: %v", err)
	}
	return d
}

func TestConsolidateConcatenatesInOrder(t *testing.T) {
	_, svc, activity, group, leader, members := newDeliverySetup(t)

	routeToLeader(t, svc, activity.ID, members[0].ID, leader.ID, []string{"a.pdf"})
	routeToLeader(t, svc, activity.ID, members[1].ID, leader.ID, []string{"b.pdf", "c.pdf"})

	consolidated, err := svc.Consolidate(group.ID, leader.ID, "done")
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}

	want := []string{"a.pdf", "b.pdf", "c.pdf"}
	if len(consolidated.FileURLs) != len(want) {
		t.Fatalf("files = %v, want %v", consolidated.FileURLs, want)
	}
	for i := range want {
		if consolidated.FileURLs[i] != want[i] {
			t.Fatalf("files = %v, want %v", consolidated.FileURLs, want)
		}
	}
	if !consolidated.Consolidated {
		t.Fatal("delivery not flagged consolidated")
	}
	if consolidated.GroupID == nil || *consolidated.GroupID != group.ID {
		t.Fatal("delivery not bound to the group")
	}
	if consolidated.Status != model.DeliverySubmitted {
		t.Fatalf("status = %s, want submitted", consolidated.Status)
	}
	if consolidated.Observations != "done" {
		t.Fatalf("observations = %q", consolidated.Observations)
	}
}

func TestConsolidatePreservesDuplicates(t *testing.T) {
	_, svc, activity, group, leader, members := newDeliverySetup(t)

	routeToLeader(t, svc, activity.ID, members[0].ID, leader.ID, []string{"report.pdf"})
	routeToLeader(t, svc, activity.ID, members[1].ID, leader.ID, []string{"report.pdf"})

	consolidated, err := svc.Consolidate(group.ID, leader.ID, "")
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if len(consolidated.FileURLs) != 2 {
		t.Fatalf("files = %v, duplicates must be preserved", consolidated.FileURLs)
	}
}

func TestConsolidateMarksSourcesConsumed(t *testing.T) {
	env, svc, activity, group, leader, members := newDeliverySetup(t)

	src := routeToLeader(t, svc, activity.ID, members[0].ID, leader.ID, []string{"a.pdf"})

	if _, err := svc.Consolidate(group.ID, leader.ID, ""); err != nil {
		t.Fatalf("Consolidate: %v", err)
	}

	stored, err := env.deliveries.FindByID(src.ID)
	if err != nil {
		t.Fatalf("reload source: %v", err)
	}
	if stored.ConsumedAt == nil {
		t.Fatal("source not marked consumed")
	}

	// Nothing left to consolidate.
	if _, err := svc.Consolidate(group.ID, leader.ID, ""); !errors.Is(err, util.ErrNothingToConsolidate) {
		t.Fatalf("second run: err = %v, want ErrNothingToConsolidate", err)
	}

	// A fresh routed delivery opens a new round with only the new files.
	routeToLeader(t, svc, activity.ID, members[1].ID, leader.ID, []string{"b.pdf"})
	second, err := svc.Consolidate(group.ID, leader.ID, "")
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if len(second.FileURLs) != 1 || second.FileURLs[0] != "b.pdf" {
		t.Fatalf("second round files = %v, want [b.pdf]", second.FileURLs)
	}
}

func TestConsolidatePermissions(t *testing.T) {
	_, svc, activity, group, leader, members := newDeliverySetup(t)

	routeToLeader(t, svc, activity.ID, members[0].ID, leader.ID, []string{"a.pdf"})

	if _, err := svc.Consolidate(group.ID, members[0].ID, ""); !errors.Is(err, util.ErrOnlyLeader) {
		t.Fatalf("non-leader: err = %v, want ErrOnlyLeader", err)
	}
	if _, err := svc.Consolidate(9999, leader.ID, ""); !errors.Is(err, util.ErrGroupNotFound) {
		t.Fatalf("missing group: err = %v, want ErrGroupNotFound", err)
	}
}

func TestLeaderInbox(t *testing.T) {
	_, svc, activity, group, leader, members := newDeliverySetup(t)

	routeToLeader(t, svc, activity.ID, members[0].ID, leader.ID, []string{"a.pdf"})
	routeToLeader(t, svc, activity.ID, members[1].ID, leader.ID, []string{"b.pdf"})

	inbox, err := svc.LeaderInbox(group.ID, leader.ID)
	if err != nil {
		t.Fatalf("LeaderInbox: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("inbox = %d entries, want 2", len(inbox))
	}

	if _, err := svc.LeaderInbox(group.ID, members[0].ID); !errors.Is(err, util.ErrOnlyLeader) {
		t.Fatalf("non-leader inbox: err = %v, want ErrOnlyLeader", err)
	}

	if _, err := svc.Consolidate(group.ID, leader.ID, ""); err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	inbox, err = svc.LeaderInbox(group.ID, leader.ID)
	if err != nil {
		t.Fatalf("LeaderInbox after consolidate: %v", err)
	}
	if len(inbox) != 0 {
		t.Fatalf("inbox = %d entries after consolidate, want 0", len(inbox))
	}
}

func TestCreateDeliveryLateStatus(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	student := env.seedStudent(t, "alice", "3A")
	onTime := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(time.Hour))
	expired := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(-time.Hour))

	svc := NewDeliveryService(env.deliveries, env.activities, env.groups, env.notification)

	d, err := svc.Create(student.ID, DeliveryRequest{ActivityID: onTime.ID, FileURLs: []string{"x.pdf"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Status != model.DeliverySubmitted {
		t.Fatalf("status = %s, want submitted", d.Status)
	}
	if d.Reference == "" {
		t.Fatal("reference not generated")
	}

	late, err := svc.Create(student.ID, DeliveryRequest{ActivityID: expired.ID, FileURLs: []string{"x.pdf"}})
	if err != nil {
		t.Fatalf("Create late: %v", err)
	}
	if late.Status != model.DeliveryLate {
		t.Fatalf("status = %s, want late", late.Status)
	}

	if _, err := svc.Create(student.ID, DeliveryRequest{ActivityID: 9999}); !errors.Is(err, util.ErrActivityNotFound) {
		t.Fatalf("missing activity: err = %v, want ErrActivityNotFound", err)
	}
}

func TestEvaluateDelivery(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	student := env.seedStudent(t, "alice", "3A")
	activity := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(time.Hour))

	svc := NewDeliveryService(env.deliveries, env.activities, env.groups, env.notification)

	d, err := svc.Create(student.ID, DeliveryRequest{ActivityID: activity.ID, FileURLs: []string{"x.pdf"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	score := 8.5
	updated, evaluation, err := svc.Evaluate(d.ID, teacher.ID, EvaluationRequest{Score: &score, Feedback: "good"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if updated.Status != model.DeliveryEvaluated {
		t.Fatalf("status = %s, want evaluated", updated.Status)
	}
	if updated.Score == nil || *updated.Score != 8.5 {
		t.Fatalf("score = %v, want 8.5", updated.Score)
	}
	if updated.EvaluatedBy == nil || *updated.EvaluatedBy != teacher.ID || updated.EvaluatedAt == nil {
		t.Fatal("evaluation metadata missing")
	}
	if evaluation.DeliveryID != d.ID || evaluation.Feedback != "good" {
		t.Fatalf("evaluation = %+v", evaluation)
	}

	evals, err := env.deliveries.ListEvaluations(d.ID)
	if err != nil {
		t.Fatalf("ListEvaluations: %v", err)
	}
	if len(evals) != 1 {
		t.Fatalf("stored evaluations = %d, want 1", len(evals))
	}
}

func TestEvaluateRejection(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	student := env.seedStudent(t, "alice", "3A")
	activity := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(time.Hour))

	svc := NewDeliveryService(env.deliveries, env.activities, env.groups, env.notification)

	d, err := svc.Create(student.ID, DeliveryRequest{ActivityID: activity.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	score := 0.0
	updated, _, err := svc.Evaluate(d.ID, teacher.ID, EvaluationRequest{Score: &score, Feedback: "redo", Rejected: true})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if updated.Status != model.DeliveryRejected {
		t.Fatalf("status = %s, want rejected", updated.Status)
	}
}

func TestDeliveryVisibility(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	alice := env.seedStudent(t, "alice", "3A")
	bob := env.seedStudent(t, "bob", "3A")
	activity := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(time.Hour))

	svc := NewDeliveryService(env.deliveries, env.activities, env.groups, env.notification)

	d, err := svc.Create(alice.ID, DeliveryRequest{ActivityID: activity.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	aliceClaims := &util.Claims{UserID: alice.ID, Role: model.Student}
	bobClaims := &util.Claims{UserID: bob.ID, Role: model.Student}
	teacherClaims := &util.Claims{UserID: teacher.ID, Role: model.Teacher}

	if _, err := svc.Get(d.ID, aliceClaims); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := svc.Get(d.ID, teacherClaims); err != nil {
		t.Fatalf("teacher get: %v", err)
	}
	if _, err := svc.Get(d.ID, bobClaims); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("other student get: err = %v, want ErrPermissionDenied", err)
	}

	// The list filter is forced onto the caller for students.
	list, _, err := svc.List(bobClaims, repository.DeliveryFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("bob sees %d deliveries, want 0", len(list))
	}
	list, _, err = svc.List(aliceClaims, repository.DeliveryFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("alice sees %d deliveries, want 1", len(list))
	}
}

func TestAllowEditReopensDelivery(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	student := env.seedStudent(t, "alice", "3A")
	activity := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(time.Hour))

	svc := NewDeliveryService(env.deliveries, env.activities, env.groups, env.notification)

	d, err := svc.Create(student.ID, DeliveryRequest{ActivityID: activity.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	reopened, err := svc.AllowEdit(d.ID)
	if err != nil {
		t.Fatalf("AllowEdit: %v", err)
	}
	if reopened.Status != model.DeliveryPending {
		t.Fatalf("status = %s, want pending", reopened.Status)
	}

	if _, err := svc.AllowEdit(9999); !errors.Is(err, util.ErrDeliveryNotFound) {
		t.Fatalf("missing: err = %v, want ErrDeliveryNotFound", err)
	}
}
