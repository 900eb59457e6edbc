package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medtrack/internal/apperr"
	"medtrack/internal/models"
	"medtrack/pkg/logger"
)

const systemInstruction = "You are a supportive companion for people using weight-loss medication. " +
	"Answer questions about medication routines, nutrition, hydration, and side effects in plain, " +
	"encouraging language. You are not a doctor: for anything that sounds like a medical emergency " +
	"or a dosing decision, tell the user to contact their healthcare provider. " +
	"Use the user profile context when it is relevant; ignore placeholder fields."

// Fragment is one streamed piece of an assistant reply. The consumer
// accumulates Text until a fragment with Done set arrives.
type Fragment struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Stream yields reply fragments in order, terminated by a Done fragment.
type Stream interface {
	Recv() (Fragment, error)
	Close() error
}

// Request is the upstream-agnostic completion request the relay builds.
type Request struct {
	System      string
	Context     string
	Message     string
	MaxTokens   int
	Temperature float32
}

// Upstream is the generative-text backend. The production implementation
// wraps the OpenAI client; tests substitute a fake.
type Upstream interface {
	Complete(ctx context.Context, req Request) (string, error)
	StreamComplete(ctx context.Context, req Request) (Stream, error)
}

// ProfileStore is the slice of the profile store the relay reads.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// Relay forwards one user message, enriched with profile context, to the
// generative-text upstream.
type Relay struct {
	upstream Upstream
	profiles ProfileStore
	logger   *logger.Logger
	timeout  time.Duration
}

func NewRelay(upstream Upstream, profiles ProfileStore, logger *logger.Logger, timeout time.Duration) *Relay {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Relay{
		upstream: upstream,
		profiles: profiles,
		logger:   logger,
		timeout:  timeout,
	}
}

// Send relays a message and streams back the reply. The caller owns the
// returned stream and must Close it. A user without a profile still gets a
// reply; the context block is all placeholders then.
func (r *Relay) Send(ctx context.Context, userID, message string) (Stream, error) {
	if userID == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "missing user identity")
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "message is required")
	}

	profile := r.loadProfile(ctx, userID)

	req := Request{
		System:      systemInstruction,
		Context:     ProfileContext(profile, time.Now()),
		Message:     message,
		MaxTokens:   1024,
		Temperature: 0.7,
	}

	streamCtx, cancel := context.WithTimeout(context.Background(), r.timeout)
	stream, err := r.upstream.StreamComplete(streamCtx, req)
	if err != nil {
		cancel()
		return nil, err
	}

	return &cancelStream{Stream: stream, cancel: cancel}, nil
}

// GeneratePlan produces a full weight-loss plan from the user's profile in a
// single synchronous completion.
func (r *Relay) GeneratePlan(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperr.New(apperr.KindUnauthenticated, "missing user identity")
	}

	profile := r.loadProfile(ctx, userID)

	prompt := fmt.Sprintf(
		"Create a personalized weight-loss plan for this user.\n\n%s\n"+
			"The plan should include:\n"+
			"1. A daily calorie target\n"+
			"2. A protein, carbohydrate, and fat split\n"+
			"3. A one-week example menu with meal times\n"+
			"4. Hydration recommendations\n"+
			"5. Practical tips for staying consistent on medication days\n",
		ProfileContext(profile, time.Now()),
	)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req := Request{
		System:      "You are an experienced dietitian creating personalized weight-loss plans.",
		Message:     prompt,
		MaxTokens:   2500,
		Temperature: 0.7,
	}

	return r.upstream.Complete(callCtx, req)
}

func (r *Relay) loadProfile(ctx context.Context, userID string) *models.UserProfile {
	profile, err := r.profiles.GetProfile(ctx, userID)
	if err != nil {
		// A missing or unreadable profile must not block the chat; the
		// context block degrades to placeholders.
		r.logger.Warnw("chat proceeding without profile context",
			"user_id", userID, "error", err)
		return nil
	}
	return profile
}

// cancelStream releases the stream's timeout context on Close.
type cancelStream struct {
	Stream
	cancel context.CancelFunc
}

func (c *cancelStream) Close() error {
	err := c.Stream.Close()
	c.cancel()
	return err
}

// Accumulate drains a stream into one display string, the way the client
// renders a finished reply.
func Accumulate(s Stream) (string, error) {
	var b strings.Builder
	for {
		frag, err := s.Recv()
		if err != nil {
			return b.String(), err
		}
		b.WriteString(frag.Text)
		if frag.Done {
			return b.String(), nil
		}
	}
}
