package service

import (
	"errors"
	"testing"
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/util"
)

func TestActivityCreateValidatesKind(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	svc := NewActivityService(env.activities, env.notification)

	_, err := svc.Create(teacher.ID, ActivityRequest{
		Title:       "T",
		Description: "D",
		Kind:        "quiz",
		Deadline:    time.Now().Add(time.Hour),
	})
	if err == nil {
		t.Fatal("unknown kind should fail")
	}

	activity, err := svc.Create(teacher.ID, ActivityRequest{
		Title:       "T",
		Description: "D",
		Kind:        string(model.ActivityMultipleChoice),
		Deadline:    time.Now().Add(time.Hour),
		Class:       "3A",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !activity.Active || activity.CreatedBy != teacher.ID {
		t.Fatalf("activity = %+v", activity)
	}
}

func TestActivityCreateNotifiesClass(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	env.seedStudent(t, "alice", "3A")
	env.seedStudent(t, "bob", "3B")

	svc := NewActivityService(env.activities, env.notification)

	if _, err := svc.Create(teacher.ID, ActivityRequest{
		Title:       "T",
		Description: "D",
		Kind:        string(model.ActivityIndividual),
		Deadline:    time.Now().Add(time.Hour),
		Class:       "3A",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var count int64
	if err := env.db.Model(&model.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("notifications = %d, want 1 (class 3A only)", count)
	}
}

func TestActivityPartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	activity := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(time.Hour))

	svc := NewActivityService(env.activities, env.notification)

	title := "New title"
	updated, err := svc.Update(activity.ID, ActivityUpdateRequest{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "New title" {
		t.Fatalf("title = %q", updated.Title)
	}
	if updated.Description != activity.Description || updated.Kind != activity.Kind {
		t.Fatal("untouched fields must survive a partial update")
	}

	if _, err := svc.Update(9999, ActivityUpdateRequest{Title: &title}); !errors.Is(err, util.ErrActivityNotFound) {
		t.Fatalf("missing: err = %v, want ErrActivityNotFound", err)
	}
}

func TestActivityDeactivateAndList(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.seedTeacher(t, "teacher")
	activity := env.seedActivity(t, model.ActivityIndividual, teacher.ID, time.Now().Add(time.Hour))
	env.seedActivity(t, model.ActivityGroup, teacher.ID, time.Now().Add(2*time.Hour))

	svc := NewActivityService(env.activities, env.notification)

	if err := svc.Deactivate(activity.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	active := true
	list, total, err := svc.List(repository.ActivityFilter{Active: &active}, 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("active list = %d, want 1", total)
	}
	if list[0].Kind != model.ActivityGroup {
		t.Fatalf("surviving activity = %+v", list[0])
	}
}
