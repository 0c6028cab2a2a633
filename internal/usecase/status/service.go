package status

import (
	"context"
	"fmt"
	"time"

	"github.com/simaogato/ipca-api/internal/domain"
)

// StatusResult describes the loaded series for health reporting
type StatusResult struct {
	Source    string
	LoadedAt  time.Time
	Points    int
	First     domain.Period
	Last      domain.Period
	FirstYear int
	LastYear  int
}

// Info renders the one-line summary returned with the full series
func (r *StatusResult) Info() string {
	return fmt.Sprintf("Dados do IPCA carregados. Período: %d-%d", r.FirstYear, r.LastYear)
}

// StatusService reports on the series the process is serving
type StatusService struct {
	IndexRepo domain.IndexRepository
	Source    string
	LoadedAt  time.Time
}

// NewStatusService creates a new StatusService instance
func NewStatusService(indexRepo domain.IndexRepository, source string, loadedAt time.Time) *StatusService {
	return &StatusService{
		IndexRepo: indexRepo,
		Source:    source,
		LoadedAt:  loadedAt,
	}
}

// GetStatus summarises the loaded series
func (s *StatusService) GetStatus(ctx context.Context) (*StatusResult, error) {
	coverage, err := s.IndexRepo.Coverage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read series coverage: %w", err)
	}

	return &StatusResult{
		Source:    s.Source,
		LoadedAt:  s.LoadedAt,
		Points:    coverage.Count,
		First:     coverage.First,
		Last:      coverage.Last,
		FirstYear: coverage.First.Year,
		LastYear:  coverage.Last.Year,
	}, nil
}
