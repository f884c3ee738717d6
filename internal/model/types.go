package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// StringList is an ordered list of strings stored as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// AnswerKey is the correct-answer encoding of a question. Exactly one branch is
// populated, keyed by the question type: Choice for single, Choices for
// multiple. Essay questions carry no key at all (nil *AnswerKey).
type AnswerKey struct {
	Choice  *int  `json:"choice,omitempty"`
	Choices []int `json:"choices,omitempty"`
}

func (k AnswerKey) Value() (driver.Value, error) {
	b, err := json.Marshal(k)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (k *AnswerKey) Scan(src interface{}) error {
	if src == nil {
		return errors.New("cannot scan NULL into AnswerKey, use *AnswerKey")
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AnswerKey", src)
	}
	return json.Unmarshal(data, k)
}
