package service

import (
	"errors"
	"testing"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

func TestUserCreateHashesPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)

	user, err := svc.Create(UserRequest{
		Name:     "Alice",
		Email:    "alice@test.local",
		Password: "secret123",
		Role:     model.Student,
		Class:    "3A",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Password == "secret123" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match: %v", err)
	}
	if !user.Active {
		t.Fatal("new users start active")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)

	req := UserRequest{Name: "Alice", Email: "alice@test.local", Password: "secret123", Role: model.Student}
	if _, err := svc.Create(req); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(req); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("duplicate: err = %v, want ErrEmailRegistered", err)
	}
}

func TestUserDeactivate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	alice := env.seedStudent(t, "alice", "3A")

	if err := svc.Deactivate(alice.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	reloaded, err := svc.Get(alice.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if reloaded.Active {
		t.Fatal("user still active")
	}

	if err := svc.Deactivate(9999); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("missing: err = %v, want ErrUserNotFound", err)
	}
}

func TestUserListFilters(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	env.seedStudent(t, "a1", "3A")
	env.seedStudent(t, "a2", "3A")
	env.seedStudent(t, "b1", "3B")
	env.seedTeacher(t, "teacher")

	_, total, err := svc.List(model.Student, "3A", 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Fatalf("3A students = %d, want 2", total)
	}

	_, total, err = svc.List(model.Teacher, "", 1, 20)
	if err != nil {
		t.Fatalf("List teachers: %v", err)
	}
	if total != 1 {
		t.Fatalf("teachers = %d, want 1", total)
	}
}
