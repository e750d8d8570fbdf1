package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/config"
)

const (
	// DefaultBaseURL 是 Groq 的 OpenAI 兼容接口地址
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel 默认使用的模型
	DefaultModel = "llama-3.3-70b-versatile"

	// DefaultTimeout 单次生成请求的超时
	DefaultTimeout = 45 * time.Second

	// maxResponseBytes 限制响应体大小，防止异常响应占用过多内存
	maxResponseBytes = 4 << 20
)

// Client 封装外部文本生成服务。
// 约定：任何失败（网络、非 2xx、响应不是合法 JSON、结构不符合预期）
// 都不向调用方返回错误，而是返回本地确定性的兜底内容。
// 每次调用最多请求一次上游，不做重试。
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient 根据配置构造生成客户端
func NewClient(cfg config.AIConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := DefaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ---------- OpenAI 兼容的 chat completions 报文 ----------

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// complete 调一次上游，返回第一个 choice 的文本
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("api key not configured")
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a learning assistant. Reply with JSON only, no extra text."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	raw, err := json.Marshal(&reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion api status %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion")
	}
	return cr.Choices[0].Message.Content, nil
}

// GenerateRoadmap 生成学习路线，失败时返回兜底路线
func (c *Client) GenerateRoadmap(ctx context.Context, topic, timeframe, level string) RoadmapResult {
	fallback := RoadmapResult{
		Roadmap: FallbackRoadmap(topic, timeframe, level),
		Source:  SourceFallback,
	}

	text, err := c.complete(ctx, roadmapPrompt(topic, timeframe, level))
	if err != nil {
		return fallback
	}

	var roadmap Roadmap
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &roadmap); err != nil {
		return fallback
	}
	if err := validateRoadmap(roadmap); err != nil {
		return fallback
	}
	return RoadmapResult{Roadmap: roadmap, Source: SourceGenerated}
}

// GenerateQuiz 生成一份测验，失败时返回兜底测验
func (c *Client) GenerateQuiz(ctx context.Context, course, topic, subtopic, description string) QuizResult {
	fallback := QuizResult{
		Quiz:   FallbackQuiz(course, topic, subtopic),
		Source: SourceFallback,
	}

	text, err := c.complete(ctx, quizPrompt(course, topic, subtopic, description))
	if err != nil {
		return fallback
	}

	var quiz Quiz
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &quiz); err != nil {
		return fallback
	}
	if err := validateQuiz(quiz); err != nil {
		return fallback
	}
	return QuizResult{Quiz: quiz, Source: SourceGenerated}
}

// GenerateResources 生成学习资源清单，失败时返回兜底清单
func (c *Client) GenerateResources(ctx context.Context, course, level, description, timeframe string) ResourcesResult {
	fallback := ResourcesResult{
		Resources: FallbackResources(course, timeframe),
		Source:    SourceFallback,
	}

	text, err := c.complete(ctx, resourcesPrompt(course, level, description, timeframe))
	if err != nil {
		return fallback
	}

	var resources Resources
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &resources); err != nil {
		return fallback
	}
	if err := validateResources(resources); err != nil {
		return fallback
	}
	return ResourcesResult{Resources: resources, Source: SourceGenerated}
}

// ---------- 结构校验 ----------

func validateRoadmap(r Roadmap) error {
	if len(r) == 0 {
		return fmt.Errorf("roadmap has no weeks")
	}
	for label, week := range r {
		if week.Topic == "" {
			return fmt.Errorf("week %q has no topic", label)
		}
		if len(week.Subtopics) == 0 {
			return fmt.Errorf("week %q has no subtopics", label)
		}
		for _, st := range week.Subtopics {
			if st.Subtopic == "" {
				return fmt.Errorf("week %q has an unnamed subtopic", label)
			}
		}
	}
	return nil
}

func validateQuiz(q Quiz) error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz has no questions")
	}
	for i, question := range q.Questions {
		if question.Question == "" {
			return fmt.Errorf("question %d has no text", i)
		}
		if len(question.Options) < 2 {
			return fmt.Errorf("question %d has too few options", i)
		}
		found := false
		for _, opt := range question.Options {
			if opt == question.Answer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("question %d answer not among options", i)
		}
	}
	return nil
}

func validateResources(r Resources) error {
	if len(r) == 0 {
		return fmt.Errorf("resources has no weeks")
	}
	for label, list := range r {
		if len(list) == 0 {
			return fmt.Errorf("week %q has no resources", label)
		}
		for _, res := range list {
			if res.Title == "" {
				return fmt.Errorf("week %q has an untitled resource", label)
			}
		}
	}
	return nil
}
