package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type speakerService struct {
	speakerRepo    domain.SpeakerRepository
	contextTimeout time.Duration
}

func NewSpeakerService(speakerRepo domain.SpeakerRepository, timeout time.Duration) domain.SpeakerService {
	return &speakerService{
		speakerRepo:    speakerRepo,
		contextTimeout: timeout,
	}
}

func (s *speakerService) Create(ctx context.Context, in *domain.Speaker) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in == nil || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: speaker 'name' field required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: speaker 'email' field required", domain.ErrInvalidArgument)
	}
	speaker := domain.NewSpeaker(strings.TrimSpace(in.Email), in.Name, in.Company, in.Sex, in.Field)
	if err := s.speakerRepo.Create(ctx, speaker); err != nil {
		return nil, fmt.Errorf("create speaker: %w", err)
	}
	return speaker, nil
}

func (s *speakerService) Query(ctx context.Context, filters []domain.FilterSpec) ([]*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	plan, err := domain.CompileFilters(domain.EntitySpeaker, filters)
	if err != nil {
		return nil, err
	}
	speakers, err := s.speakerRepo.Query(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("query speakers: %w", err)
	}
	return speakers, nil
}
