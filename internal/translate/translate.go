// Package translate fills in German translations for stored words through
// the OpenRouter chat completions API.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Revicx/russian-anki/internal/errors"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Result is one translated word.
type Result struct {
	Word         string `json:"original"`
	Translation  string `json:"translation"`
	PartOfSpeech string `json:"part_of_speech"`
	ExampleRU    string `json:"example_ru"`
	ExampleDE    string `json:"example_de"`
}

// Client talks to OpenRouter. BaseURL is overridable for tests.
type Client struct {
	APIKey     string
	Model      string
	Workers    int
	BaseURL    string
	HTTPClient *http.Client
	Log        zerolog.Logger

	// MaxRetries bounds attempts per word; backoff doubles between attempts.
	MaxRetries int
	// Backoff is the initial retry delay.
	Backoff time.Duration
}

// NewClient creates a Client with production defaults.
func NewClient(apiKey, model string, workers int, log zerolog.Logger) *Client {
	return &Client{
		APIKey:     apiKey,
		Model:      model,
		Workers:    workers,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Log:        log,
		MaxRetries: 3,
		Backoff:    time.Second,
	}
}

const promptTemplate = `Translate the Russian word "%s" to German.
Respond with ONLY a JSON object, no other text:
{"original": "%s", "translation": "<German translation>", "part_of_speech": "<noun/verb/adjective/etc>", "example_ru": "<short Russian example sentence>", "example_de": "<its German translation>"}`

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Translate translates a single word, retrying transient failures with
// exponential backoff.
func (c *Client) Translate(ctx context.Context, word string) (*Result, error) {
	if c.APIKey == "" {
		return nil, errors.NewInvalidRequest("OPENROUTER_API_KEY is not set")
	}

	backoff := c.Backoff
	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			c.Log.Debug().Str("word", word).Int("attempt", attempt).Err(lastErr).Msg("retrying translation")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		res, err := c.request(ctx, word)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, errors.NewTranslation(word, lastErr)
}

func (c *Client) request(ctx context.Context, word string) (*Result, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(promptTemplate, word, word)},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if cr.Error != nil {
		return nil, fmt.Errorf("api error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	res, err := parseResult(cr.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if res.Word == "" {
		res.Word = word
	}
	return res, nil
}

// parseResult decodes the model's answer. Models wrap JSON in code fences or
// prose often enough that plain unmarshalling is not sufficient.
func parseResult(content string) (*Result, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var res Result
	if err := json.Unmarshal([]byte(content), &res); err == nil {
		return &res, nil
	}

	// Fall back to the outermost brace pair.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response: %q", content)
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &res); err != nil {
		return nil, fmt.Errorf("malformed JSON in response: %w", err)
	}
	return &res, nil
}

// TranslateAll translates words concurrently, bounded by Workers. Individual
// failures are logged and skipped; the successful results are returned keyed
// by word.
func (c *Client) TranslateAll(ctx context.Context, words []string) (map[string]*Result, error) {
	if c.APIKey == "" {
		return nil, errors.NewInvalidRequest("OPENROUTER_API_KEY is not set")
	}

	results := make(map[string]*Result, len(words))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for _, word := range words {
		word := word
		g.Go(func() error {
			res, err := c.Translate(ctx, word)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.Log.Warn().Str("word", word).Err(err).Msg("translation failed, skipping")
				return nil
			}
			mu.Lock()
			results[word] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
