package responder

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"campus-chat/internal/chat"
	"campus-chat/internal/logging"
	"campus-chat/internal/user"
)

const (
	NoLecturerReply = "Maaf, saya sedang tidak bisa menjawab."
	FailureReply    = "Maaf, terjadi kesalahan pada sistem AI. Silakan coba lagi nanti."

	DefaultTimeout = 30 * time.Second
)

// Directory resolves chat participants to profiles.
type Directory interface {
	Resolve(ids []string) []user.User
}

// Gateway turns chat context into lecturer text. It never returns an error:
// every generator failure, timeout included, becomes a fixed fallback.
type Gateway struct {
	gen     Generator
	dir     Directory
	timeout time.Duration
}

func NewGateway(gen Generator, dir Directory, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{gen: gen, dir: dir, timeout: timeout}
}

// GenerateReply answers the chat as its first lecturer participant.
func (g *Gateway) GenerateReply(ctx context.Context, c chat.Chat, student user.User) string {
	lecturer, ok := user.FirstLecturer(g.dir.Resolve(c.ParticipantIDs))
	if !ok {
		return NoLecturerReply
	}

	text, err := g.generate(ctx, replyInstruction(lecturer, student, c.Topic), history(c.Messages, lecturer.ID))
	if err != nil {
		logging.FromContext(ctx).Warn("reply generation failed", "error", err, "chat_id", c.ID)
		return FailureReply
	}
	return text
}

// GenerateOpening writes the welcome message of a new consultation.
func (g *Gateway) GenerateOpening(ctx context.Context, lecturer, student user.User, topic user.Category) string {
	text, err := g.generate(ctx, openingInstruction(lecturer, student, topic), []Turn{{Role: TurnUser, Text: openingRequest}})
	if err != nil {
		logging.FromContext(ctx).Warn("opening generation failed", "error", err, "lecturer_id", lecturer.ID)
		return openingFallback(lecturer, student, topic)
	}
	return text
}

func (g *Gateway) generate(ctx context.Context, system string, turns []Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	// a generator that ignores ctx must still not hold the caller past the timeout
	done := make(chan result, 1)
	go func() {
		text, err := g.gen.Generate(ctx, system, turns)
		done <- result{text, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		if r.text == "" {
			return "", errors.New("empty generation")
		}
		return r.text, nil
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "generation timed out")
	}
}
