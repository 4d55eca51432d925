package answer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type OpenAIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	AudioDir string
	// AudioURLPrefix is prepended to generated audio file names.
	AudioURLPrefix string
}

// OpenAIAnswerer answers with chat completions and optionally adds a DALL-E
// illustration and a text-to-speech mp3 written to AudioDir.
type OpenAIAnswerer struct {
	client *openai.Client
	cfg    OpenAIConfig
	logger *zap.Logger
}

func NewOpenAIAnswerer(cfg OpenAIConfig, logger *zap.Logger) (*OpenAIAnswerer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4o
	}
	if cfg.AudioURLPrefix == "" {
		cfg.AudioURLPrefix = "/audio/"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIAnswerer{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		logger: logger,
	}, nil
}

func systemPrompt(filter ContentFilter) string {
	return "You are a friendly assistant for 5-year-old children. " +
		"Provide clear, simple, and engaging answers that are appropriate for kindergarten-age children. " +
		"Use short sentences, basic vocabulary, and friendly language. " +
		"Never use complex terminology without explaining it in very simple terms. " +
		"Keep your answers educational, fun, and appropriate for young children. " +
		"Never include scary, violent, or inappropriate content in your responses. " +
		"Content filter level: " + string(filter)
}

// Answer never fails on provider errors: each part degrades to a fallback.
func (a *OpenAIAnswerer) Answer(ctx context.Context, req Request) (*Answer, error) {
	if req.ContentFilter == "" {
		req.ContentFilter = FilterStrict
	}

	out := &Answer{Text: a.text(ctx, req)}
	if req.GenerateImage {
		out.ImageURL = a.image(ctx, req.Question, out.Text)
	}
	if req.GenerateAudio {
		out.AudioURL = a.speech(ctx, out.Text)
	}
	out.SuggestedQuestions = a.suggestions(ctx, req.Question, out.Text)
	return out, nil
}

func (a *OpenAIAnswerer) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (a *OpenAIAnswerer) text(ctx context.Context, req Request) string {
	text, err := a.complete(ctx, systemPrompt(req.ContentFilter), req.Question, 300)
	if err != nil {
		a.logger.Warn("Answer generation failed", zap.Error(err))
		return fallbackText
	}
	if text == "" {
		return "I'm not sure about that. Ask me something else!"
	}
	return text
}

var leadingNumber = regexp.MustCompile(`^\d+[.)]\s*`)

func (a *OpenAIAnswerer) suggestions(ctx context.Context, question, text string) []string {
	prompt := fmt.Sprintf("Based on this child's question: %q and the answer: %q, "+
		"suggest 3 follow-up questions that would help a 5-year-old learn more about this topic. "+
		"The questions should build upon their curiosity and understanding progressively. "+
		"Keep questions simple, engaging, and age-appropriate. Return only the questions, one per line.",
		question, text)

	raw, err := a.complete(ctx, "You are designing questions for 5-year-old children.", prompt, 150)
	if err != nil {
		a.logger.Warn("Follow-up question generation failed", zap.Error(err))
		return append([]string(nil), fallbackSuggestions...)
	}
	return parseSuggestions(raw)
}

func parseSuggestions(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, leadingNumber.ReplaceAllString(line, ""))
		if len(out) == defaultSuggestions {
			break
		}
	}
	return out
}

func (a *OpenAIAnswerer) image(ctx context.Context, question, text string) string {
	if len(text) > 100 {
		text = text[:100]
	}
	prompt := fmt.Sprintf("A child-friendly, colorful illustration of %s - %s. "+
		"Make it educational, bright, and suitable for 5-year-olds. No text.", question, text)

	resp, err := a.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          openai.CreateImageModelDallE3,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		Quality:        openai.CreateImageQualityStandard,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		a.logger.Warn("Image generation failed", zap.Error(err))
		return ""
	}
	if len(resp.Data) == 0 {
		return ""
	}
	return resp.Data[0].URL
}

func (a *OpenAIAnswerer) speech(ctx context.Context, text string) string {
	if a.cfg.AudioDir == "" {
		return ""
	}
	resp, err := a.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1HD,
		Voice:          openai.VoiceShimmer,
		Input:          text,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		a.logger.Warn("Speech synthesis failed", zap.Error(err))
		return ""
	}
	defer resp.Close()

	name, err := writeAudio(a.cfg.AudioDir, resp)
	if err != nil {
		a.logger.Warn("Failed to store speech audio", zap.Error(err))
		return ""
	}
	return a.cfg.AudioURLPrefix + name
}

func writeAudio(dir string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := "answer_" + uuid.NewString() + ".mp3"
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	return name, f.Close()
}
