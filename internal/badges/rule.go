package badges

import (
	"encoding/json"
	"fmt"
)

// RuleType is the discriminator stored in a badge's unlock criteria.
type RuleType string

const (
	RuleCategoryFirst     RuleType = "category_first"
	RuleQuestionCount     RuleType = "question_count"
	RuleCategoryDiversity RuleType = "category_diversity"
)

// UnlockRule is a monotonic predicate over a user's question history. The
// concrete types are CategoryFirst, QuestionCount and CategoryDiversity.
type UnlockRule interface {
	Type() RuleType
	unlockRule()
}

// CategoryFirst unlocks on the user's first question in Category.
type CategoryFirst struct {
	Category Category
}

// QuestionCount unlocks once the user has asked at least Count questions.
type QuestionCount struct {
	Count int
}

// CategoryDiversity unlocks once the user has asked questions in at least
// Count distinct categories.
type CategoryDiversity struct {
	Count int
}

func (CategoryFirst) Type() RuleType     { return RuleCategoryFirst }
func (QuestionCount) Type() RuleType     { return RuleQuestionCount }
func (CategoryDiversity) Type() RuleType { return RuleCategoryDiversity }

func (CategoryFirst) unlockRule()     {}
func (QuestionCount) unlockRule()     {}
func (CategoryDiversity) unlockRule() {}

type storedRule struct {
	Type     RuleType `json:"type"`
	Category string   `json:"category,omitempty"`
	Count    int      `json:"count,omitempty"`
}

// ParseUnlockRule decodes a stored criterion such as
// {"type":"question_count","count":5}. Every failure wraps ErrUnlockRuleParse.
func ParseUnlockRule(raw string) (UnlockRule, error) {
	var stored storedRule
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnlockRuleParse, err)
	}

	switch stored.Type {
	case RuleCategoryFirst:
		category, ok := ParseCategory(stored.Category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrUnlockRuleParse, stored.Category)
		}
		return CategoryFirst{Category: category}, nil
	case RuleQuestionCount:
		if stored.Count <= 0 {
			return nil, fmt.Errorf("%w: question_count needs a positive count", ErrUnlockRuleParse)
		}
		return QuestionCount{Count: stored.Count}, nil
	case RuleCategoryDiversity:
		if stored.Count <= 0 {
			return nil, fmt.Errorf("%w: category_diversity needs a positive count", ErrUnlockRuleParse)
		}
		return CategoryDiversity{Count: stored.Count}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrUnlockRuleParse)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrUnlockRuleParse, stored.Type)
	}
}

// EncodeUnlockRule is the inverse of ParseUnlockRule.
func EncodeUnlockRule(rule UnlockRule) (string, error) {
	var stored storedRule
	switch r := rule.(type) {
	case CategoryFirst:
		stored = storedRule{Type: RuleCategoryFirst, Category: string(r.Category)}
	case QuestionCount:
		stored = storedRule{Type: RuleQuestionCount, Count: r.Count}
	case CategoryDiversity:
		stored = storedRule{Type: RuleCategoryDiversity, Count: r.Count}
	default:
		return "", fmt.Errorf("encode unlock rule: unsupported rule %T", rule)
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode unlock rule: %w", err)
	}
	return string(data), nil
}

func mustEncode(rule UnlockRule) string {
	s, err := EncodeUnlockRule(rule)
	if err != nil {
		panic(err)
	}
	return s
}
