package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"medtrack/internal/apperr"
)

// OpenAIUpstream adapts the OpenAI chat-completion API to the Upstream
// interface.
type OpenAIUpstream struct {
	client *openai.Client
	model  string
}

func NewOpenAIUpstream(apiKey, model string) *OpenAIUpstream {
	if model == "" {
		model = "gpt-4"
	}
	return &OpenAIUpstream{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (u *OpenAIUpstream) buildRequest(req Request, stream bool) openai.ChatCompletionRequest {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.System},
	}
	content := req.Message
	if req.Context != "" {
		content = req.Context + "\n" + req.Message
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	})

	return openai.ChatCompletionRequest{
		Model:       u.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      stream,
	}
}

func (u *OpenAIUpstream) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := u.client.CreateChatCompletion(ctx, u.buildRequest(req, false))
	if err != nil {
		return "", mapUpstreamError(err)
	}

	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.KindUpstreamInternal, "empty completion response")
	}

	return resp.Choices[0].Message.Content, nil
}

func (u *OpenAIUpstream) StreamComplete(ctx context.Context, req Request) (Stream, error) {
	stream, err := u.client.CreateChatCompletionStream(ctx, u.buildRequest(req, true))
	if err != nil {
		return nil, mapUpstreamError(err)
	}
	return &openaiStream{stream: stream}, nil
}

type openaiStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openaiStream) Recv() (Fragment, error) {
	resp, err := s.stream.Recv()
	if errors.Is(err, io.EOF) {
		return Fragment{Done: true}, nil
	}
	if err != nil {
		return Fragment{}, mapUpstreamError(err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Delta.Content
	}
	return Fragment{Text: text}, nil
}

func (s *openaiStream) Close() error {
	return s.stream.Close()
}

// mapUpstreamError translates upstream failures into the error taxonomy the
// handlers surface to the client. Unrecognized errors keep their raw
// description behind the generic unexpected-error message.
func mapUpstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return apperr.Wrap(apperr.KindRateLimited, "upstream rate limited", err)
		case http.StatusServiceUnavailable, http.StatusBadGateway:
			return apperr.Wrap(apperr.KindUpstreamUnavailable, "upstream unavailable", err)
		case http.StatusInternalServerError, http.StatusUnauthorized:
			// An upstream 401 means our credentials are bad, which to the
			// client is still an internal failure.
			return apperr.Wrap(apperr.KindUpstreamInternal, "upstream internal error", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindUpstreamUnavailable, "upstream timed out", err)
	}
	return fmt.Errorf("completion request failed: %w", err)
}
