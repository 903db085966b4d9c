package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Details
	Date time.Time
}

type ListFilter struct {
	SeriesID  *uuid.UUID
	Type      *Type
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := &Transaction{
		Details: params.Details,
		Date:    params.Date,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}
