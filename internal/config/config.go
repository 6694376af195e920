package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/advocaid/assistant/backend/internal/model/chat"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Chat   ChatConfig
	Log    LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	chatCfg, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Chat: chatCfg, Log: loadLogConfig()}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr              string
	AllowedOrigins    []string
	RateLimitWindow   time.Duration
	RateLimitCapacity int
}

// loadServerConfig 解析服务器监听地址与限流参数。
func loadServerConfig() (ServerConfig, error) {
	addr, err := parseAddr(strings.TrimSpace(os.Getenv("PORT")))
	if err != nil {
		return ServerConfig{}, err
	}

	window, err := parseOptionalIntEnv("RATE_LIMIT_WINDOW_SECONDS")
	if err != nil {
		return ServerConfig{}, err
	}
	windowSeconds := 10
	if window != nil && *window > 0 {
		windowSeconds = *window
	}

	capacity, err := parseOptionalIntEnv("RATE_LIMIT_CAPACITY")
	if err != nil {
		return ServerConfig{}, err
	}
	limit := 5
	if capacity != nil {
		// 0 或负数表示关闭限流。
		limit = *capacity
	}

	return ServerConfig{
		Addr:              addr,
		AllowedOrigins:    parseListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitWindow:   time.Duration(windowSeconds) * time.Second,
		RateLimitCapacity: limit,
	}, nil
}

func parseAddr(port string) (string, error) {
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// Provider 标识生成式服务的实现。
type Provider string

const (
	ProviderSimulated Provider = "simulated"
	ProviderArk       Provider = "ark"
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
)

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider Provider

	// Volcengine Ark
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string

	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	OllamaHost   string
	OllamaModel  string

	Temperature *float64
	TopP        *float64
	MaxTokens   *int

	TopicLLMEnabled      bool
	TopicCandidatesLimit int
}

// ArkEnabled 表示是否提供了 Ark 必需的密钥。
func (c AIConfig) ArkEnabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个 Ark 模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.ArkEnabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("AI_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	topicEnabled, err := parseBoolEnv("AI_TOPIC_LLM_ENABLED", false)
	if err != nil {
		return AIConfig{}, err
	}

	candidates := 3
	if override, err := parseOptionalIntEnv("AI_TOPIC_CANDIDATES"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		candidates = max(*override, 1)
	}

	cfg := AIConfig{
		APIKey:               strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:            strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:            strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:                strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:              getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:               getEnvOrDefault("ARK_REGION", "cn-beijing"),
		GeminiAPIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:         strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:          getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OllamaHost:           getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:          getEnvOrDefault("OLLAMA_MODEL", "llama3.1"),
		Temperature:          temperature,
		TopP:                 topP,
		MaxTokens:            maxTokens,
		TopicLLMEnabled:      topicEnabled,
		TopicCandidatesLimit: candidates,
	}

	provider, err := parseProvider(os.Getenv("AI_PROVIDER"), cfg)
	if err != nil {
		return AIConfig{}, err
	}
	cfg.Provider = provider
	return cfg, nil
}

// parseProvider 在未显式指定时按凭证一次性推断提供方。
func parseProvider(raw string, cfg AIConfig) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(raw))); p {
	case ProviderSimulated, ProviderArk, ProviderGemini, ProviderOpenAI, ProviderOllama:
		return p, nil
	case "":
		switch {
		case cfg.GeminiAPIKey != "":
			return ProviderGemini, nil
		case cfg.ArkEnabled():
			return ProviderArk, nil
		case cfg.OpenAIAPIKey != "":
			return ProviderOpenAI, nil
		default:
			return ProviderSimulated, nil
		}
	default:
		return "", fmt.Errorf("invalid AI_PROVIDER value %q", raw)
	}
}

// ChatConfig 描述会话行为。
type ChatConfig struct {
	Persona           string
	DefaultLanguage   chat.Language
	CategoriesFile    string
	SimulatedMinDelay time.Duration
	SimulatedMaxDelay time.Duration
	// FetchTimeout 为 0 时沿用底层客户端的超时。
	FetchTimeout time.Duration
}

func loadChatConfig() (ChatConfig, error) {
	lang := chat.LanguageEnglish
	if raw := strings.TrimSpace(os.Getenv("DEFAULT_LANGUAGE")); raw != "" {
		parsed, ok := chat.ParseLanguage(raw)
		if !ok {
			return ChatConfig{}, fmt.Errorf("invalid DEFAULT_LANGUAGE value %q", raw)
		}
		lang = parsed
	}

	minDelay, err := parseOptionalIntEnv("SIMULATED_MIN_DELAY_MS")
	if err != nil {
		return ChatConfig{}, err
	}
	maxDelay, err := parseOptionalIntEnv("SIMULATED_MAX_DELAY_MS")
	if err != nil {
		return ChatConfig{}, err
	}
	minMS, maxMS := 1000, 3000
	if minDelay != nil {
		minMS = max(*minDelay, 0)
	}
	if maxDelay != nil {
		maxMS = *maxDelay
	}
	if maxMS < minMS {
		return ChatConfig{}, fmt.Errorf("SIMULATED_MAX_DELAY_MS (%d) must not be below SIMULATED_MIN_DELAY_MS (%d)", maxMS, minMS)
	}

	timeout, err := parseOptionalIntEnv("FETCH_TIMEOUT_SECONDS")
	if err != nil {
		return ChatConfig{}, err
	}
	var fetchTimeout time.Duration
	if timeout != nil && *timeout > 0 {
		fetchTimeout = time.Duration(*timeout) * time.Second
	}

	return ChatConfig{
		Persona:           strings.TrimSpace(os.Getenv("ASSISTANT_PERSONA")),
		DefaultLanguage:   lang,
		CategoriesFile:    strings.TrimSpace(os.Getenv("CATEGORIES_FILE")),
		SimulatedMinDelay: time.Duration(minMS) * time.Millisecond,
		SimulatedMaxDelay: time.Duration(maxMS) * time.Millisecond,
		FetchTimeout:      fetchTimeout,
	}, nil
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level slog.Level
	File  string
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level: parseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO")),
		File:  strings.TrimSpace(os.Getenv("LOG_FILE")),
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
