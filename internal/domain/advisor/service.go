// Package advisor suggests activities for a city's forecast.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	"github.com/yanqian/weather-dashboard/internal/domain/weather"
	"github.com/yanqian/weather-dashboard/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// Service exposes activity recommendations.
type Service interface {
	Recommend(ctx context.Context, req Request) (Response, error)
}

// ChatClient is the optional LLM backend. A nil client means rules only.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// ForecastSource provides the daily forecast used for advice.
type ForecastSource interface {
	Daily(ctx context.Context, city string) (weather.DailyResponse, error)
}

type service struct {
	cfg      Config
	forecast ForecastSource
	client   ChatClient
	logger   *slog.Logger
}

// NewService wires up the advisor domain.
func NewService(cfg Config, source ForecastSource, client ChatClient, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		forecast: source,
		client:   client,
		logger:   logger.With("component", "advisor.service"),
	}
}

func (s *service) Recommend(ctx context.Context, req Request) (Response, error) {
	city := strings.TrimSpace(req.City)
	if city == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "city name is required", nil)
	}

	daily, err := s.forecast.Daily(ctx, city)
	if err != nil {
		return Response{}, err
	}
	if len(daily.Daily) == 0 {
		return Response{}, apperrors.Wrap(apperrors.CodeUpstream, "no forecast available", nil)
	}
	day := daily.Daily[0]
	name := firstNonEmpty(daily.City, city)

	if s.client == nil {
		return recommendByRules(name, day), nil
	}

	res, err := s.askLLM(ctx, name, day)
	if err != nil {
		s.logger.Warn("advisor llm failed, using rules", "city", name, "error", err)
		return recommendByRules(name, day), nil
	}
	return res, nil
}

func (s *service) askLLM(ctx context.Context, city string, day forecast.Day) (Response, error) {
	completion, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.buildSystemPrompt()},
			{Role: "user", Content: buildUserPrompt(city, day)},
		},
		Temperature:    s.cfg.Temperature,
		ResponseFormat: &chatgpt.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt request failed", err)
	}
	if len(completion.Choices) == 0 {
		return Response{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt returned no choices", nil)
	}

	advice, err := parseAdvice(completion.Choices[0].Message.Content)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt response malformed", err)
	}
	advice.City = city
	advice.Source = SourceLLM
	return advice, nil
}

func (s *service) buildSystemPrompt() string {
	base := strings.TrimSpace(s.cfg.Prompt)
	if base == "" {
		base = "You are a local guide recommending outdoor and indoor activities from a weather forecast."
	}
	return base + " Respond ONLY with valid minified JSON using this shape: " +
		`{"summary":string,"activities":[{"name":string,"suitable":boolean,"reason":string}]}.` +
		" Never return plain text or other fields."
}

func buildUserPrompt(city string, day forecast.Day) string {
	wire := struct {
		City        string  `json:"city"`
		Date        string  `json:"date"`
		Description string  `json:"description"`
		TempMin     float64 `json:"temp_min_c"`
		TempMax     float64 `json:"temp_max_c"`
		Humidity    int     `json:"humidity"`
		WindSpeed   float64 `json:"wind_speed_ms"`
		Pop         int     `json:"pop"`
	}{
		City:        city,
		Date:        day.Date.Format("2006-01-02"),
		Description: day.Description,
		TempMin:     day.TempMin,
		TempMax:     day.TempMax,
		Humidity:    day.Humidity,
		WindSpeed:   day.WindSpeed,
		Pop:         day.Pop,
	}
	data, err := json.Marshal(wire)
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf("Suggest activities for %s based ONLY on this forecast: %s", city, data)
}

func parseAdvice(raw string) (Response, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))

	var wire struct {
		Summary    string     `json:"summary"`
		Activities []Activity `json:"activities"`
	}
	if err := json.Unmarshal([]byte(sanitized), &wire); err != nil {
		return Response{}, err
	}

	out := Response{Summary: strings.TrimSpace(wire.Summary)}
	seen := make(map[string]struct{})
	for _, a := range wire.Activities {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			continue
		}
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		a.Reason = strings.TrimSpace(a.Reason)
		out.Activities = append(out.Activities, a)
	}
	if out.Summary == "" {
		return Response{}, errors.New("summary missing")
	}
	if len(out.Activities) == 0 {
		return Response{}, errors.New("activities missing")
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
