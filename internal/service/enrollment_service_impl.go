package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/repository"
	"github.com/google/uuid"
)

type enrollmentService struct {
	learners repository.LearnerRepo
	clock    clock.Clock
	observer UseCaseObserver
}

func NewEnrollmentService(learners repository.LearnerRepo, clk clock.Clock, observers ...UseCaseObserver) EnrollmentService {
	if clk == nil {
		clk = clock.System{}
	}
	return &enrollmentService{
		learners: learners,
		clock:    clk,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, req contract.EnrollRequest) (learner *domain.Learner, err error) {
	startedAt := time.Now()
	fields := map[string]any{"enrolled": req.ProgramStart != nil}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("enroll", startedAt, fields, err))
	}()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("learner name is required")
	}
	now := s.clock.Now().UTC()
	learner = &domain.Learner{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.ProgramStart != nil {
		learner.ProgramStart = domain.Ptr(*req.ProgramStart)
	}
	if err = s.learners.Create(ctx, learner); err != nil {
		return nil, err
	}
	fields["learner_id"] = learner.ID
	return learner, nil
}

func (s *enrollmentService) Get(ctx context.Context, id string) (*domain.Learner, error) {
	return locator{learners: s.learners}.learner(ctx, id)
}

func (s *enrollmentService) List(ctx context.Context) ([]*domain.Learner, error) {
	return s.learners.List(ctx)
}

func (s *enrollmentService) ResetStart(ctx context.Context, id string, start time.Time) (learner *domain.Learner, err error) {
	startedAt := time.Now()
	fields := map[string]any{"learner_id": id}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("reset-start", startedAt, fields, err))
	}()

	if start.IsZero() {
		return nil, fmt.Errorf("program start is required")
	}
	return s.update(ctx, id, func(l *domain.Learner) {
		l.ProgramStart = domain.Ptr(start)
	})
}

func (s *enrollmentService) SetSignals(ctx context.Context, id string, update contract.SignalsUpdate) (learner *domain.Learner, err error) {
	startedAt := time.Now()
	fields := map[string]any{"learner_id": id}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("set-signals", startedAt, fields, err))
	}()

	return s.update(ctx, id, func(l *domain.Learner) {
		if update.ProfileComplete != nil {
			l.ProfileComplete = *update.ProfileComplete
		}
		if update.AssessmentComplete != nil {
			l.AssessmentComplete = *update.AssessmentComplete
		}
		fields["prep_complete"] = l.PrepComplete()
	})
}

func (s *enrollmentService) update(ctx context.Context, id string, mutate func(*domain.Learner)) (*domain.Learner, error) {
	learner, err := locator{learners: s.learners}.learner(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(learner)
	learner.UpdatedAt = s.clock.Now().UTC()
	if err := s.learners.Update(ctx, learner); err != nil {
		return nil, err
	}
	return learner, nil
}
