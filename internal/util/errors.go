package util

import "errors"

var (
	ErrActivityNotFound     = errors.New("activity not found")
	ErrNotMultipleChoice    = errors.New("activity is not of the multiple-choice kind")
	ErrNotGroupKind         = errors.New("activity is not of the group kind")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrNoAnswersProvided    = errors.New("no answers provided")
	ErrDeliveryNotFound     = errors.New("delivery not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrMemberNotFound       = errors.New("group member not found")
	ErrAlreadyMember        = errors.New("student is already a member of this group")
	ErrOnlyLeader           = errors.New("only the leader may consolidate")
	ErrNothingToConsolidate = errors.New("no deliveries to consolidate")
	ErrFollowUpNotFound     = errors.New("follow-up not found")
	ErrFollowUpExists       = errors.New("a follow-up already exists for this date")
	ErrFollowUpLocked       = errors.New("editing not allowed, ask the teacher to release it")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email is already registered")
	ErrPermissionDenied     = errors.New("permission denied")
)
