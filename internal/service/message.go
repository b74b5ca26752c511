package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sakif/collabhub/internal/apperror"
	"github.com/sakif/collabhub/internal/metrics"
	"github.com/sakif/collabhub/internal/model"
	"github.com/sakif/collabhub/internal/repository"
)

// MessageService sends and lists direct messages.
type MessageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewMessageService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	m *metrics.Metrics,
	logger *slog.Logger,
) *MessageService {
	return &MessageService{messages: messages, users: users, metrics: m, logger: logger}
}

// Send stores a message from fromID to toID.
//
// Errors:
//   - apperror.ErrValidation when toID or text is blank, or toID == fromID
//   - apperror.ErrNotFound when the recipient does not exist
func (s *MessageService) Send(ctx context.Context, fromID, toID, text string) (*model.Message, error) {
	if isBlank(toID) {
		return nil, apperror.ValidationFailed("toId", "toId is required")
	}
	if isBlank(text) {
		return nil, apperror.ValidationFailed("text", "text is required")
	}
	if toID == fromID {
		return nil, apperror.ValidationFailed("toId", "cannot send a message to yourself")
	}

	if _, err := s.users.GetByID(ctx, toID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("recipient", toID)
		}
		return nil, fmt.Errorf("service/message: looking up recipient: %w", err)
	}

	msg := &model.Message{From: fromID, To: toID, Text: text}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("service/message: storing message: %w", err)
	}

	s.metrics.MessageSent()
	s.logger.Debug("message sent",
		slog.String("messageID", msg.ID),
		slog.String("from", fromID),
		slog.String("to", toID),
	)
	return msg, nil
}

// ListMine returns every message userID sent or received, newest first.
func (s *MessageService) ListMine(ctx context.Context, userID string) ([]model.Message, error) {
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/message: listing messages: %w", err)
	}
	return msgs, nil
}

// Threads groups userID's messages by counterparty. Each thread carries the
// latest message and the message count; threads are ordered by that latest
// message, newest first.
func (s *MessageService) Threads(ctx context.Context, userID string) ([]model.Thread, error) {
	msgs, err := s.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	threads := make([]model.Thread, 0)
	for _, m := range msgs {
		other := m.Counterparty(userID)
		i, ok := index[other]
		if !ok {
			index[other] = len(threads)
			threads = append(threads, model.Thread{Other: other, Last: m})
			i = len(threads) - 1
		}
		threads[i].Count++
		if m.At.After(threads[i].Last.At) {
			threads[i].Last = m
		}
	}

	slices.SortStableFunc(threads, func(a, b model.Thread) int {
		return b.Last.At.Compare(a.Last.At)
	})
	return threads, nil
}

// Conversation returns the messages exchanged between userID and otherID,
// oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID string) ([]model.Message, error) {
	msgs, err := s.ListMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]model.Message, 0)
	for _, m := range msgs {
		if m.Counterparty(userID) == otherID {
			out = append(out, m)
		}
	}
	slices.Reverse(out)
	return out, nil
}
