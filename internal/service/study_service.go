package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/platform/logger"
	"github.com/studyhall/studyhall-api/internal/service/progress"
	"github.com/studyhall/studyhall-api/internal/store"
)

// CompleteSessionInput carries a finished session summary.
// A zero CompletedAt defaults to the current time.
type CompleteSessionInput struct {
	CorrectAnswers   int       `json:"correct_answers"   validate:"gte=0"`
	IncorrectAnswers int       `json:"incorrect_answers" validate:"gte=0"`
	DurationMinutes  int       `json:"duration_minutes"  validate:"gte=0"`
	CompletedAt      time.Time `json:"completed_at"`
}

// StudyStats is the aggregated study statistics for one user over the
// configured lookback window. All fields are zero when there are no
// sessions.
type StudyStats struct {
	// CardsStudiedToday is the number of cards covered by sessions
	// completed on the current calendar day.
	CardsStudiedToday int `json:"cards_studied_today"`

	// TotalSessions is the number of sessions in the window.
	TotalSessions int `json:"total_sessions"`

	// Accuracy is the overall fraction of correct answers in the window,
	// in [0, 1].
	Accuracy float64 `json:"accuracy"`

	// CurrentStreakDays is the length of the unbroken run of calendar days
	// with at least one session, ending today or yesterday.
	CurrentStreakDays int `json:"current_streak_days"`

	// BestStreakDays is the longest such run anywhere in the window.
	BestStreakDays int `json:"best_streak_days"`
}

// StudyService records study activity and aggregates statistics.
type StudyService interface {
	// RecordProgress queues one per-card review result for background
	// persistence. It never blocks on the database.
	RecordProgress(ctx context.Context, userID, cardID uuid.UUID, correct bool) error

	// CompleteSession validates and records a finished session summary and
	// stamps the deck's last-studied time.
	CompleteSession(ctx context.Context, userID, deckID uuid.UUID, input CompleteSessionInput) (*domain.StudySession, error)

	// Stats aggregates the user's study statistics over the lookback window.
	Stats(ctx context.Context, userID uuid.UUID) (*StudyStats, error)

	// ProgressStatus reports the progress outbox counters.
	ProgressStatus() progress.Status
}

type studyServiceImpl struct {
	deckStore    store.DeckStore
	sessionStore store.SessionStore
	outbox       *progress.Outbox
	lookbackDays int
	logger       *slog.Logger
	now          func() time.Time
}

var _ StudyService = (*studyServiceImpl)(nil)

// NewStudyService creates a StudyService.
// Panics on nil dependencies: services are wired once at startup.
func NewStudyService(
	deckStore store.DeckStore,
	sessionStore store.SessionStore,
	outbox *progress.Outbox,
	lookbackDays int,
	log *slog.Logger,
) StudyService {
	if deckStore == nil {
		panic("service.NewStudyService: deckStore cannot be nil")
	}
	if sessionStore == nil {
		panic("service.NewStudyService: sessionStore cannot be nil")
	}
	if outbox == nil {
		panic("service.NewStudyService: outbox cannot be nil")
	}
	if lookbackDays < 1 {
		lookbackDays = 30
	}
	if log == nil {
		log = slog.Default()
	}

	return &studyServiceImpl{
		deckStore:    deckStore,
		sessionStore: sessionStore,
		outbox:       outbox,
		lookbackDays: lookbackDays,
		logger:       log.With(slog.String("component", "study_service")),
		now:          time.Now,
	}
}

func (s *studyServiceImpl) RecordProgress(
	ctx context.Context,
	userID, cardID uuid.UUID,
	correct bool,
) error {
	return s.outbox.Enqueue(ctx, progress.Update{
		UserID:  userID,
		CardID:  cardID,
		Correct: correct,
		At:      s.now().UTC(),
	})
}

func (s *studyServiceImpl) CompleteSession(
	ctx context.Context,
	userID, deckID uuid.UUID,
	input CompleteSessionInput,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.deckStore.GetByID(ctx, userID, deckID); err != nil {
		return nil, err
	}

	completedAt := input.CompletedAt
	if completedAt.IsZero() {
		completedAt = s.now()
	}

	session, err := domain.NewStudySession(
		userID,
		deckID,
		input.CorrectAnswers,
		input.IncorrectAnswers,
		input.DurationMinutes,
		completedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		log.Error("failed to record study session",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("complete_session", "failed to save session", err)
	}

	// The session record is the source of truth; a failed deck stamp is
	// logged and absorbed rather than failing the completed session.
	if err := s.deckStore.TouchLastStudied(ctx, userID, deckID); err != nil {
		log.Warn("failed to stamp deck last-studied time",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
	}

	log.Info("study session recorded",
		slog.String("session_id", session.ID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("cards_studied", session.CardsStudied))

	return session, nil
}

func (s *studyServiceImpl) Stats(ctx context.Context, userID uuid.UUID) (*StudyStats, error) {
	now := s.now().UTC()
	since := now.AddDate(0, 0, -s.lookbackDays)

	sessions, err := s.sessionStore.ListSince(ctx, userID, since)
	if err != nil {
		return nil, NewServiceError("study_stats", "failed to load sessions", err)
	}

	stats := &StudyStats{TotalSessions: len(sessions)}
	if len(sessions) == 0 {
		return stats, nil
	}

	today := calendarDay(now)
	totalStudied := 0
	totalCorrect := 0
	studyDays := make(map[time.Time]struct{})

	for _, session := range sessions {
		totalStudied += session.CardsStudied
		totalCorrect += session.CorrectAnswers

		day := calendarDay(session.CompletedAt.UTC())
		studyDays[day] = struct{}{}
		if day.Equal(today) {
			stats.CardsStudiedToday += session.CardsStudied
		}
	}

	if totalStudied > 0 {
		stats.Accuracy = float64(totalCorrect) / float64(totalStudied)
	}
	stats.CurrentStreakDays = currentStreak(studyDays, today)
	stats.BestStreakDays = bestStreak(studyDays)

	return stats, nil
}

func (s *studyServiceImpl) ProgressStatus() progress.Status {
	return s.outbox.Status()
}

// calendarDay truncates a time to its UTC calendar date.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// currentStreak counts the unbroken run of study days ending today, or
// ending yesterday when today has no session yet (studying later today
// extends the streak rather than having already broken it).
func currentStreak(days map[time.Time]struct{}, today time.Time) int {
	start := today
	if _, ok := days[start]; !ok {
		start = today.AddDate(0, 0, -1)
		if _, ok := days[start]; !ok {
			return 0
		}
	}

	streak := 0
	for day := start; ; day = day.AddDate(0, 0, -1) {
		if _, ok := days[day]; !ok {
			break
		}
		streak++
	}
	return streak
}

// bestStreak finds the longest run of consecutive study days.
func bestStreak(days map[time.Time]struct{}) int {
	if len(days) == 0 {
		return 0
	}

	sorted := make([]time.Time, 0, len(days))
	for day := range days {
		sorted = append(sorted, day)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	best := 1
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
