package horoscope

import (
	"context"
	"strconv"
	"time"

	"github.com/zodiacal/horoscope-api/internal/contracts"
	"github.com/zodiacal/horoscope-api/internal/zodiac"
	"github.com/zodiacal/horoscope-api/pkg/logger"
	"github.com/zodiacal/horoscope-api/pkg/redis"
)

// Horoscope is the uniform read shape returned for both kinds. The
// kind that was not requested carries an empty text field so clients
// always see the same structure.
type Horoscope struct {
	ID       int    `json:"id"`
	SignName string `json:"sign_name"`
	Symbol   string `json:"symbol"`
	Daily    string `json:"daily_horoscope"`
	Weekly   string `json:"weekly_horoscope"`
	Date     string `json:"horoscope_date"`
}

// SubmitInput is the write payload. DailyText and WeeklyText are both
// optional; only the kinds actually supplied are written.
type SubmitInput struct {
	SignID     int    `json:"sign_id"`
	SignName   string `json:"sign_name"`
	Symbol     string `json:"symbol"`
	DailyText  string `json:"daily_horoscope"`
	WeeklyText string `json:"weekly_horoscope"`
	Date       string `json:"horoscope_date"`
}

// KindResult reports what happened to one kind during Submit. Date is
// the period the write resolved to, which for weekly is the derived
// Monday rather than the submitted date. Exactly one of Outcome and
// Error is set.
type KindResult struct {
	Outcome contracts.Outcome `json:"outcome,omitempty"`
	Date    string            `json:"date,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// SubmitResult carries per-kind outcomes. A kind that was not supplied
// in the input has a nil entry.
type SubmitResult struct {
	Daily  *KindResult `json:"daily,omitempty"`
	Weekly *KindResult `json:"weekly,omitempty"`
}

// Service orchestrates validation, key resolution and storage access.
// Stateless between requests; the store owns all persisted state and
// the cache is a read-through layer that can be disabled.
type Service struct {
	store contracts.Store
	cache *redis.Cache
	log   *logger.Logger
	now   func() time.Time
}

// NewService wires a Service over the given backend. The cache may be
// backed by a disabled client, in which case every lookup falls
// through to the store.
func NewService(store contracts.Store, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{
		store: store,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Submit upserts the supplied kinds for one sign and date. Daily text
// is keyed by the exact date, weekly text by the Monday of the date's
// week. The two writes are independent: when one fails the other's
// outcome is still reported, and the returned error reflects the
// failure.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	date, err := parseDate("horoscope_date", in.Date)
	if err != nil {
		return nil, err
	}

	fields := contracts.Fields{
		SignName: in.SignName,
		Symbol:   in.Symbol,
	}

	result := &SubmitResult{}
	var firstErr error

	if in.DailyText != "" {
		fields.Text = in.DailyText
		result.Daily, err = s.upsertKind(ctx, contracts.KindDaily, in.SignID, date, fields)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if in.WeeklyText != "" {
		fields.Text = in.WeeklyText
		result.Weekly, err = s.upsertKind(ctx, contracts.KindWeekly, in.SignID, date, fields)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return result, firstErr
}

func (s *Service) upsertKind(ctx context.Context, kind contracts.Kind, signID int, date time.Time, fields contracts.Fields) (*KindResult, error) {
	key := ResolveKey(kind, signID, date)
	period := key.Date.Format(contracts.DateLayout)

	outcome, err := s.store.Upsert(ctx, kind, key, fields)
	if err != nil {
		s.log.WithError(err).WithFields(map[string]interface{}{
			"kind":    string(kind),
			"sign_id": key.SignID,
			"date":    period,
		}).Error("upsert failed")
		// Category only; backend detail stays in the logs.
		return &KindResult{Date: period, Error: "store failure"}, err
	}

	s.invalidate(ctx, kind, key)

	s.log.WithFields(map[string]interface{}{
		"kind":    string(kind),
		"sign_id": key.SignID,
		"date":    period,
		"outcome": string(outcome),
	}).Info("horoscope upserted")

	return &KindResult{Outcome: outcome, Date: period}, nil
}

// FetchOne returns the record for one sign and period. The sign id
// arrives as a raw path segment and must parse as an integer in 1..12.
// An empty date defaults to today in UTC; kind defaults to daily.
func (s *Service) FetchOne(ctx context.Context, rawSignID, rawDate, rawKind string) (*Horoscope, error) {
	signID, err := parseSignID(rawSignID)
	if err != nil {
		return nil, err
	}

	kind := contracts.ParseKind(rawKind)

	date, err := s.dateOrToday(rawDate)
	if err != nil {
		return nil, err
	}

	key := ResolveKey(kind, signID, date)
	cacheKey := recordCacheKey(kind, key)

	var cached Horoscope
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	rec, err := s.store.Get(ctx, kind, key)
	if err != nil {
		return nil, err
	}

	h := shape(kind, *rec)
	if err := s.cache.Set(ctx, cacheKey, h, redis.TTLRecord); err != nil {
		s.log.WithError(err).Warn("cache set failed")
	}
	return h, nil
}

// FetchAll returns every record of the kind for one period, ordered by
// sign id ascending. A period with no records yields an empty slice.
func (s *Service) FetchAll(ctx context.Context, rawDate, rawKind string) ([]Horoscope, error) {
	kind := contracts.ParseKind(rawKind)

	date, err := s.dateOrToday(rawDate)
	if err != nil {
		return nil, err
	}

	period := PeriodFor(kind, date)
	cacheKey := listCacheKey(kind, period)

	var cached []Horoscope
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	recs, err := s.store.ListByPeriod(ctx, kind, period)
	if err != nil {
		return nil, err
	}

	out := make([]Horoscope, 0, len(recs))
	for _, rec := range recs {
		out = append(out, *shape(kind, rec))
	}

	if err := s.cache.Set(ctx, cacheKey, out, redis.TTLList); err != nil {
		s.log.WithError(err).Warn("cache set failed")
	}
	return out, nil
}

func (in SubmitInput) validate() error {
	if !zodiac.ValidID(in.SignID) {
		return contracts.NewValidationError("sign_id", "must be between 1 and 12")
	}
	if in.SignName == "" {
		return contracts.NewValidationError("sign_name", "is required")
	}
	if in.Symbol == "" {
		return contracts.NewValidationError("symbol", "is required")
	}
	if in.Date == "" {
		return contracts.NewValidationError("horoscope_date", "is required")
	}
	return nil
}

func parseSignID(raw string) (int, error) {
	signID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, contracts.NewValidationError("sign_id", "must be an integer")
	}
	if !zodiac.ValidID(signID) {
		return 0, contracts.NewValidationError("sign_id", "must be between 1 and 12")
	}
	return signID, nil
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(contracts.DateLayout, raw)
	if err != nil {
		return time.Time{}, contracts.NewValidationError(field, "must be formatted YYYY-MM-DD")
	}
	return t, nil
}

// dateOrToday resolves the optional date parameter. UTC is fixed for
// the default so the same request hits the same key regardless of
// where the process runs.
func (s *Service) dateOrToday(raw string) (time.Time, error) {
	if raw == "" {
		return DateOnly(s.now().UTC()), nil
	}
	return parseDate("date", raw)
}

// shape converts a stored record into the uniform response shape,
// filling the unrequested kind's text with an empty string.
func shape(kind contracts.Kind, rec contracts.Record) *Horoscope {
	h := &Horoscope{
		ID:       rec.SignID,
		SignName: rec.SignName,
		Symbol:   rec.Symbol,
		Date:     rec.Date.Format(contracts.DateLayout),
	}
	if kind == contracts.KindWeekly {
		h.Weekly = rec.Text
	} else {
		h.Daily = rec.Text
	}
	return h
}

func recordCacheKey(kind contracts.Kind, key contracts.Key) string {
	date := key.Date.Format(contracts.DateLayout)
	if kind == contracts.KindWeekly {
		return redis.WeeklyKey(key.SignID, date)
	}
	return redis.DailyKey(key.SignID, date)
}

func listCacheKey(kind contracts.Kind, period time.Time) string {
	date := period.Format(contracts.DateLayout)
	if kind == contracts.KindWeekly {
		return redis.WeeklyListKey(date)
	}
	return redis.DailyListKey(date)
}

// invalidate drops the cached record and period list touched by a
// write so the next read sees the new content.
func (s *Service) invalidate(ctx context.Context, kind contracts.Kind, key contracts.Key) {
	date := key.Date.Format(contracts.DateLayout)

	var keys []string
	if kind == contracts.KindWeekly {
		keys = []string{redis.WeeklyKey(key.SignID, date), redis.WeeklyListKey(date)}
	} else {
		keys = []string{redis.DailyKey(key.SignID, date), redis.DailyListKey(date)}
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WithError(err).Warn("cache invalidation failed")
	}
}
