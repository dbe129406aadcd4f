package usecase

import (
	"strings"
	"unicode/utf8"

	"aibuilder/internal/domain/entity"
	"aibuilder/internal/infrastructure/metrics"
)

type ChatUsecase interface {
	Reply(message string, history []entity.ChatMessage) (string, error)
}

var _ ChatUsecase = (*ChatService)(nil)

// ChatService answers with canned replies picked by keyword matching.
// Checks run in fixed priority order; the first matching set wins.
type ChatService struct{}

func NewChatService() *ChatService {
	return &ChatService{}
}

var (
	greetingWords = []string{"hello", "hi", "hey"}
	buildWords    = []string{"website", "app", "build", "create"}
	pricingWords  = []string{"pricing", "cost", "price"}
)

const (
	greetingReply = "Hey! I'm your AI builder. Tell me what you want to create."
	buildReply    = "Great! Share your idea, target audience, and key features. " +
		"I can draft a plan and spin up a starter in minutes."
	pricingReply = "This demo is free. In production, cost depends on features and integrations."
	defaultReply = "Got it. I can help you plan features, pages, and backend endpoints. " +
		"Use the planner below to generate a build plan."
)

func (s *ChatService) Reply(message string, history []entity.ChatMessage) (string, error) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return "", entity.InvalidArgumentError("message cannot be empty")
	}

	lower := strings.ToLower(msg)
	var reply, intent string
	switch {
	case containsAny(lower, greetingWords):
		reply, intent = greetingReply, "greeting"
	case containsAny(lower, buildWords):
		reply, intent = buildReply, "build"
	case containsAny(lower, pricingWords):
		reply, intent = pricingReply, "pricing"
	default:
		reply, intent = defaultReply, "default"
	}
	metrics.IncChatReply(intent)

	// Echo the latest user hint from the history, if it adds anything.
	// The length cap counts characters, not bytes.
	if last := entity.LastUserContent(history); last != "" && last != msg && utf8.RuneCountInString(last) < 120 {
		reply += " Also noted: '" + last + "'."
	}

	return reply, nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
