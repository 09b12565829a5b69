package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// TagVocabulary is the fixed set of tags a review may carry. Tags outside
// this set are silently dropped before the review is stored.
var TagVocabulary = []string{
	"Great Service",
	"Honest & Polite",
	"Knowledgeable",
	"Rude",
	"Not on Time",
	"Fake Service Registration",
}

// StringList stores a slice of strings as a JSON column.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// Review is one user's rating of one provider. Reviews are append-only;
// the composite unique index rejects a second review from the same user.
type Review struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	ProviderUID string     `json:"provider_uid" gorm:"uniqueIndex:idx_provider_reviewer;not null"`
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_provider_reviewer;not null"`
	UserName    string     `json:"user_name"`
	Rating      int        `json:"rating" gorm:"not null"`
	Tags        StringList `json:"tags" gorm:"type:text"`
	Comment     string     `json:"comment"`
	CreatedAt   time.Time  `json:"timestamp"`
}

// FilterTags keeps only tags from the fixed vocabulary, preserving order
// and dropping duplicates.
func FilterTags(tags []string) StringList {
	known := make(map[string]bool, len(TagVocabulary))
	for _, t := range TagVocabulary {
		known[t] = true
	}
	var out StringList
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if known[t] && !seen[t] {
			out = append(out, t)
			seen[t] = true
		}
	}
	return out
}
