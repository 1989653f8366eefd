package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Apurer/catering-api/internal/domains/messages/domain"
	"github.com/Apurer/catering-api/internal/domains/messages/ports"
)

var ErrInvalidInput = errors.New("invalid message input")

// Service implements the contact inbox use cases.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
}

func NewService(repo ports.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Submit(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg == nil {
		return nil, errors.New("message is nil")
	}
	msg.ID = ""
	msg.IsRead = false
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	created, err := s.repo.Create(ctx, msg)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "contact message received", slog.String("message.id", created.ID), slog.String("message.subject", created.Subject))
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Message, error) {
	return s.repo.List(ctx)
}

func (s *Service) MarkRead(ctx context.Context, id string) (*domain.Message, error) {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
