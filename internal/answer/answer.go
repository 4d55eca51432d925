// Package answer produces child-friendly answers (text, illustration, speech)
// for a question.
package answer

import (
	"context"
	"fmt"
)

// ContentFilter is how strictly answers are filtered for young children.
type ContentFilter string

const (
	FilterStrict   ContentFilter = "strict"
	FilterModerate ContentFilter = "moderate"
	FilterStandard ContentFilter = "standard"
)

// ParseContentFilter validates s; empty means strict.
func ParseContentFilter(s string) (ContentFilter, error) {
	switch ContentFilter(s) {
	case "":
		return FilterStrict, nil
	case FilterStrict, FilterModerate, FilterStandard:
		return ContentFilter(s), nil
	default:
		return "", fmt.Errorf("unknown content filter %q", s)
	}
}

type Request struct {
	Question      string
	ContentFilter ContentFilter
	GenerateImage bool
	GenerateAudio bool
}

type Answer struct {
	Text               string   `json:"text"`
	ImageURL           string   `json:"imageUrl"`
	AudioURL           string   `json:"audioUrl,omitempty"`
	SuggestedQuestions []string `json:"suggestedQuestions,omitempty"`
}

// Answerer turns a question into an Answer.
type Answerer interface {
	Answer(ctx context.Context, req Request) (*Answer, error)
}

const (
	fallbackText       = "I'm having trouble thinking right now. Let's try another question!"
	unavailableText    = "I'm sorry, I couldn't understand that question. Can you ask me something else?"
	defaultSuggestions = 3
)

var fallbackSuggestions = []string{
	"What else would you like to know?",
	"Can you tell me more about what interests you?",
	"Would you like to learn about something else?",
}

// Offline answers every question with a friendly placeholder. It is used when
// no AI provider is configured.
type Offline struct{}

func (Offline) Answer(_ context.Context, _ Request) (*Answer, error) {
	return &Answer{
		Text:               unavailableText,
		SuggestedQuestions: append([]string(nil), fallbackSuggestions...),
	}, nil
}
