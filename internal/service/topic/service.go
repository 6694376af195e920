package topic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/advocaid/assistant/backend/internal/analysis/topic"
	"github.com/advocaid/assistant/backend/internal/model/category"
)

// Config 控制分类建议服务的行为。
type Config struct {
	Enabled         bool
	CandidatesLimit int
}

// Suggestion is a category a client may offer for an uncategorised session.
type Suggestion struct {
	analysis.Decision
	Confidence float32 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
	Source     string  `json:"source"`
}

// Service 使用大模型为未分类会话推荐分类，并在必要时回退到关键词规则。
type Service struct {
	enabled    bool
	classifier compose.Runnable[map[string]any, *schema.Message]
	categories []category.Category
	limit      int
	logger     *slog.Logger
}

// NewService creates the suggestion service. chatModel may be nil, which keeps keyword matching only.
func NewService(ctx context.Context, chatModel model.ChatModel, categories []category.Category, cfg Config, logger *slog.Logger) (*Service, error) {
	limit := cfg.CandidatesLimit
	if limit <= 0 {
		limit = 3
	}

	svc := &Service{
		enabled:    cfg.Enabled && chatModel != nil,
		categories: append([]category.Category(nil), categories...),
		limit:      limit,
		logger:     logger,
	}

	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(topicSystemPrompt),
		schema.UserMessage(topicUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile topic classifier chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Enabled 返回大模型分类是否启用。
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.classifier != nil
}

// Suggest returns the best category for text, or false when nothing fits.
func (s *Service) Suggest(ctx context.Context, text string) (Suggestion, bool) {
	if strings.TrimSpace(text) == "" || len(s.categories) == 0 {
		return Suggestion{}, false
	}
	if !s.Enabled() {
		return s.fallback(text)
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{
		"categories": formatCategories(s.categories),
		"candidates": formatCandidates(analysis.Rank(text, s.categories, s.limit)),
		"question":   strings.TrimSpace(text),
	})
	if err != nil {
		s.logger.Warn("topic classifier invoke failed, using keywords", "error", err)
		return s.fallback(text)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return s.fallback(text)
	}

	result, err := parseClassifierOutput(msg.Content)
	if err != nil {
		s.logger.Warn("topic classifier output unparseable, using keywords", "error", err)
		return s.fallback(text)
	}

	id := strings.TrimSpace(result.Category)
	if strings.EqualFold(id, "none") {
		return Suggestion{}, false
	}
	c, ok := s.find(id)
	if !ok {
		return s.fallback(text)
	}

	return Suggestion{
		Decision:   analysis.Decision{CategoryID: c.ID, Title: c.Title},
		Confidence: clampConfidence(result.Confidence),
		Reason:     strings.TrimSpace(result.Reason),
		Source:     "llm",
	}, true
}

func (s *Service) fallback(text string) (Suggestion, bool) {
	decision := analysis.Analyze(text, s.categories)
	if decision.Empty() {
		return Suggestion{}, false
	}

	confidence := float32(0.35)
	if len(decision.Matched) > 1 {
		confidence = 0.55
	}
	return Suggestion{Decision: decision, Confidence: confidence, Source: "keywords"}, true
}

func (s *Service) find(id string) (category.Category, bool) {
	for _, c := range s.categories {
		if strings.EqualFold(c.ID, id) {
			return c, true
		}
	}
	return category.Category{}, false
}

// parseClassifierOutput 解析大模型返回的 JSON。
func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func formatCategories(categories []category.Category) string {
	var b strings.Builder
	for i, c := range categories {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s: %s (%s)", c.ID, c.Title, c.Description)
	}
	return b.String()
}

func formatCandidates(ranked []analysis.Decision) string {
	if len(ranked) == 0 {
		return "none"
	}
	ids := make([]string, 0, len(ranked))
	for _, d := range ranked {
		ids = append(ids, d.CategoryID)
	}
	return strings.Join(ids, ", ")
}

func clampConfidence(val float32) float32 {
	if val <= 0 {
		return 0.6
	}
	if val > 1 {
		return 1
	}
	return val
}

type classifierPayload struct {
	Category   string  `json:"category"`
	Confidence float32 `json:"confidence"`
	Reason     string  `json:"reason"`
}

const topicSystemPrompt = "You route user questions to the most relevant advice category. Read the category list and the question, then answer with a single JSON object and nothing else: {{\"category\": \"<category id or none>\", \"confidence\": <0..1>, \"reason\": \"<one short sentence>\"}}. Use \"none\" when no category clearly applies."

const topicUserPrompt = "Categories:\n{categories}\n\nKeyword candidates: {candidates}\n\nQuestion:\n{question}"
