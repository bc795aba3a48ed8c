package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/scheduler/internal/model"
	"go.uber.org/zap"
)

// maxCandidatesPerPhase caps how many suggestions a single search phase
// returns.
const maxCandidatesPerPhase = 5

// SuggestionRequest is the typed parameter set for a suggestion search.
// SLAFrom/SLATo and PreferStart are optional; SlotMinutes falls back to
// DefaultSlotMinutes when zero.
type SuggestionRequest struct {
	TechnicianID    int64
	DurationMin     int
	From            time.Time
	To              time.Time
	SLAFrom         *time.Time
	SLATo           *time.Time
	PreferStart     *time.Time
	SlotMinutes     int
	TravelBufferMin int
}

// SuggestionResult is the outcome of a search. Empty Suggestions with a
// nil NextAvailable is a normal result, not a failure.
type SuggestionResult struct {
	Suggestions   []model.Suggestion `json:"suggestions"`
	WithinSLA     bool               `json:"within_sla"`
	NextAvailable *model.Suggestion  `json:"next_available"`
}

// SuggestionService finds contiguous runs of available slots, preferring
// the requested start day, then the SLA window, then anything.
type SuggestionService struct {
	availability *AvailabilityService
	loc          *time.Location
	logger       *zap.Logger
}

func NewSuggestionService(availability *AvailabilityService, loc *time.Location, logger *zap.Logger) *SuggestionService {
	if loc == nil {
		loc = time.UTC
	}
	return &SuggestionService{
		availability: availability,
		loc:          loc,
		logger:       logger,
	}
}

// searchPhase restricts which slots may start a candidate. Phases are
// tried in order and the first one that yields any candidate wins.
type searchPhase struct {
	name   string
	accept func(start time.Time) bool
}

// Suggest computes availability once for [From, To) and scans it for
// runs of contiguous available slots long enough to hold DurationMin.
func (s *SuggestionService) Suggest(ctx context.Context, req SuggestionRequest) (*SuggestionResult, error) {
	const op = "suggestion.suggest"

	if req.DurationMin <= 0 {
		return nil, newError(KindInvalidInput, op, fmt.Sprintf("duration must be positive, got %d", req.DurationMin))
	}
	slotMinutes := req.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = DefaultSlotMinutes
	}

	slots, err := s.availability.ComputeAvailability(ctx, AvailabilityRequest{
		TechnicianID:    req.TechnicianID,
		From:            req.From,
		To:              req.To,
		SlotMinutes:     slotMinutes,
		TravelBufferMin: req.TravelBufferMin,
	})
	if err != nil {
		return nil, err
	}

	need := (req.DurationMin + slotMinutes - 1) / slotMinutes
	duration := time.Duration(req.DurationMin) * time.Minute

	var candidates []model.Suggestion
	for _, phase := range s.phases(req) {
		candidates = s.scanPhase(slots, phase, need, duration)
		if len(candidates) > 0 {
			s.logger.Debug("Suggestion phase matched",
				zap.String("phase", phase.name),
				zap.Int("candidates", len(candidates)),
				zap.Int64("technician_id", req.TechnicianID),
			)
			break
		}
	}

	result := &SuggestionResult{Suggestions: candidates}
	if len(candidates) > 0 {
		result.NextAvailable = &candidates[0]
	}
	if req.SLAFrom != nil && req.SLATo != nil {
		sla := model.Interval{Start: *req.SLAFrom, End: *req.SLATo}
		for _, c := range candidates {
			if sla.Contains(model.Interval{Start: c.Start, End: c.End}) {
				result.WithinSLA = true
				break
			}
		}
	}
	return result, nil
}

// phases builds the ordered phase list: preferred start day, SLA window,
// then unrestricted as the final fallback.
func (s *SuggestionService) phases(req SuggestionRequest) []searchPhase {
	var phases []searchPhase
	if req.PreferStart != nil {
		py, pm, pd := req.PreferStart.In(s.loc).Date()
		phases = append(phases, searchPhase{
			name: "prefer",
			accept: func(start time.Time) bool {
				y, m, d := start.In(s.loc).Date()
				return y == py && m == pm && d == pd
			},
		})
	}
	if req.SLAFrom != nil && req.SLATo != nil {
		slaFrom, slaTo := *req.SLAFrom, *req.SLATo
		phases = append(phases, searchPhase{
			name: "sla",
			accept: func(start time.Time) bool {
				return !start.Before(slaFrom) && start.Before(slaTo)
			},
		})
	}
	phases = append(phases, searchPhase{
		name:   "any",
		accept: func(time.Time) bool { return true },
	})
	return phases
}

// scanPhase emits up to maxCandidatesPerPhase candidates, earliest first.
// A candidate at index i needs slots i..i+need-1 all available and
// mutually contiguous; out-of-hours or time-off slots break contiguity
// even when the slots around them are available.
func (s *SuggestionService) scanPhase(slots []model.Slot, phase searchPhase, need int, duration time.Duration) []model.Suggestion {
	var candidates []model.Suggestion
	for i := 0; i+need <= len(slots); i++ {
		if !phase.accept(slots[i].Start) {
			continue
		}
		if !runFits(slots[i:i+need], duration) {
			continue
		}
		candidates = append(candidates, model.Suggestion{
			Start: slots[i].Start,
			End:   slots[i].Start.Add(duration),
		})
		if len(candidates) == maxCandidatesPerPhase {
			break
		}
	}
	return candidates
}

// runFits reports whether the run is fully available, gap-free and long
// enough. The last slot of a window can be shorter than the granularity,
// so the run's real end is checked against the requested duration.
func runFits(run []model.Slot, duration time.Duration) bool {
	for i := range run {
		if !run[i].Available {
			return false
		}
		if i > 0 && !run[i].Start.Equal(run[i-1].End) {
			return false
		}
	}
	last := run[len(run)-1]
	return !run[0].Start.Add(duration).After(last.End)
}
