package service

import (
	"encoding/json"

	"ativflow_backend/internal/model"
)

// GradeAnswer scores one submitted answer against a question's answer key.
// It is a pure function: no I/O, same inputs always produce the same result.
//
// The returned correctness is nil for essay questions, which never enter
// automatic grading. Questions whose key was never recorded grade as
// incorrect rather than erroring, as does a payload that does not match the
// question's type. Points are the full weight on a correct answer and zero
// otherwise; there is no partial credit.
func GradeAnswer(q *model.Question, raw json.RawMessage) (*bool, float64) {
	if q.Type == model.QuestionEssay {
		return nil, 0
	}

	correct := false
	if q.AnswerKey != nil {
		switch q.Type {
		case model.QuestionSingle:
			var choice int
			if err := json.Unmarshal(raw, &choice); err == nil && q.AnswerKey.Choice != nil {
				correct = choice == *q.AnswerKey.Choice
			}
		case model.QuestionMultiple:
			var choices []int
			if err := json.Unmarshal(raw, &choices); err == nil {
				correct = equalChoiceSets(choices, q.AnswerKey.Choices)
			}
		}
	}

	points := 0.0
	if correct {
		points = q.Weight
	}
	return &correct, points
}

// equalChoiceSets compares two index lists as sets: order-independent,
// duplicates collapsed, and an exact match required in both directions.
func equalChoiceSets(submitted, key []int) bool {
	if len(key) == 0 {
		return false
	}

	keySet := make(map[int]struct{}, len(key))
	for _, k := range key {
		keySet[k] = struct{}{}
	}

	submittedSet := make(map[int]struct{}, len(submitted))
	for _, s := range submitted {
		if _, ok := keySet[s]; !ok {
			return false
		}
		submittedSet[s] = struct{}{}
	}

	return len(submittedSet) == len(keySet)
}
