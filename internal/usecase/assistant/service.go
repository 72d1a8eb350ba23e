// Package assistant answers marketplace questions through a chat model.
package assistant

import (
	"context"
	"strings"

	"mammy-coker-hub/internal/domain/validation"
	ai "mammy-coker-hub/internal/infrastructure/assistant"
	"mammy-coker-hub/internal/pkg/logging"
)

type RequestType string

const (
	TypeGeneral           RequestType = "general"
	TypeJobMatch          RequestType = "job-match"
	TypeProfileSuggestion RequestType = "profile-suggestion"
	TypeCoverLetter       RequestType = "cover-letter"
)

const (
	maxTokens   = 1000
	temperature = 0.7

	maxPromptLength = 4000
)

var systemPrompts = map[RequestType]string{
	TypeJobMatch: "You are a job matching assistant for Mammy Coker Hub, a platform connecting skilled professionals with employers in Sierra Leone. " +
		"Analyze the user's skills and experience to suggest the best job matches. Be concise and helpful.",
	TypeProfileSuggestion: "You are a career advisor for Mammy Coker Hub. Help professionals improve their profiles to attract more employers. " +
		"Provide specific, actionable suggestions for their bio, skills, and portfolio.",
	TypeCoverLetter: "You are a professional writing assistant. Help users write compelling cover letters for job applications. " +
		"Keep the tone professional but personable, and highlight relevant skills.",
	TypeGeneral: "You are a helpful assistant for Mammy Coker Hub, a platform connecting skilled professionals with employers in Sierra Leone. " +
		"Answer questions about finding jobs, hiring professionals, and using the platform.",
}

// SystemPrompt returns the prompt for t; unknown types get the general one.
func SystemPrompt(t RequestType) string {
	if p, ok := systemPrompts[t]; ok {
		return p
	}
	return systemPrompts[TypeGeneral]
}

type Completer interface {
	Complete(ctx context.Context, in ai.ChatRequest) (string, error)
}

type Request struct {
	Prompt  string      `json:"prompt"`
	Context string      `json:"context,omitempty"`
	Type    RequestType `json:"type,omitempty"`
}

type Response struct {
	Response string `json:"response"`
}

type Service struct {
	completer Completer
	model     string
	logger    *logging.Logger
}

func NewService(completer Completer, model string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Service{completer: completer, model: model, logger: logger.With("component", "assistant")}
}

func (s *Service) Ask(ctx context.Context, req Request) (Response, error) {
	prompt := strings.TrimSpace(req.Prompt)
	e := validation.Errors{}
	validation.MinLen(e, "prompt", prompt, 1, "Prompt is required")
	validation.MaxLen(e, "prompt", prompt, maxPromptLength, "Prompt must be at most 4000 characters")
	if err := e.Err(); err != nil {
		return Response{}, err
	}

	t := req.Type
	if t == "" {
		t = TypeGeneral
	}
	s.logger.Info("assistant request", "type", t, "prompt_length", len(prompt))

	messages := []ai.Message{{Role: "system", Content: SystemPrompt(t)}}
	if c := strings.TrimSpace(req.Context); c != "" {
		messages = append(messages, ai.Message{Role: "user", Content: "Context: " + c})
	}
	messages = append(messages, ai.Message{Role: "user", Content: prompt})

	out, err := s.completer.Complete(ctx, ai.ChatRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		s.logger.Error("assistant request failed", "type", t, "error", err)
		return Response{}, err
	}
	return Response{Response: out}, nil
}

func (s *Service) JobMatches(ctx context.Context, skills []string, experience string) (Response, error) {
	return s.Ask(ctx, Request{
		Prompt:  "Based on my skills and experience, what types of jobs would be a good match for me?",
		Context: "Skills: " + strings.Join(skills, ", ") + ". Experience: " + experience,
		Type:    TypeJobMatch,
	})
}

func (s *Service) ProfileSuggestions(ctx context.Context, bio string, skills []string) (Response, error) {
	return s.Ask(ctx, Request{
		Prompt:  "How can I improve my professional profile to attract more employers?",
		Context: "Current bio: " + bio + ". Skills: " + strings.Join(skills, ", "),
		Type:    TypeProfileSuggestion,
	})
}

func (s *Service) CoverLetter(ctx context.Context, jobTitle, company string, skills []string) (Response, error) {
	return s.Ask(ctx, Request{
		Prompt:  "Write a compelling cover letter for this job application.",
		Context: "Job: " + jobTitle + " at " + company + ". My skills: " + strings.Join(skills, ", "),
		Type:    TypeCoverLetter,
	})
}
