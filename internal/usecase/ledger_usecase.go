package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/infrastructure/metrics"
)

// DefaultLedgerCacheTTL bounds staleness of the cached party ledger.
// Mutations invalidate eagerly; the TTL is the backstop.
const DefaultLedgerCacheTTL = 30 * time.Second

func ledgerCacheKey(partyName string) string {
	return "ledger:" + domain.NormalizePartyName(partyName)
}

// Ledger is the party-facing view: the payment history plus a balance
// summary. Summary is nil when no loan matches the party.
type Ledger struct {
	Collections []*domain.Collection  `json:"collections"`
	Summary     *domain.LedgerSummary `json:"summary"`
}

// LedgerUseCase answers read-only ledger queries.
type LedgerUseCase struct {
	loanRepo       LoanRepository
	collectionRepo CollectionRepository
	cache          Cache
	cacheTTL       time.Duration
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase. cache may be nil.
func NewLedgerUseCase(
	loanRepo LoanRepository,
	collectionRepo CollectionRepository,
	cache Cache,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *LedgerUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultLedgerCacheTTL
	}

	return &LedgerUseCase{
		loanRepo:       loanRepo,
		collectionRepo: collectionRepo,
		cache:          cache,
		cacheTTL:       cacheTTL,
		metrics:        m,
		logger:         logger,
	}
}

// LedgerByParty derives the ledger for a borrower, matched by name
// case-insensitively. A party with collections but no loan gets the
// history with a nil summary rather than an error.
func (uc *LedgerUseCase) LedgerByParty(ctx context.Context, partyName string) (*Ledger, error) {
	partyName = strings.TrimSpace(partyName)

	if cached := uc.fromCache(ctx, partyName); cached != nil {
		uc.metrics.RecordLedgerQuery(true)
		return cached, nil
	}

	collections, err := uc.collectionRepo.ListByParty(ctx, partyName)
	if err != nil {
		return nil, err
	}

	ledger := &Ledger{Collections: collections}

	loan, err := uc.loanRepo.GetByParty(ctx, partyName)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			uc.metrics.RecordLedgerQuery(false)
			return ledger, nil
		}

		return nil, err
	}

	ledger.Summary = domain.Summarize(loan, collections)

	uc.toCache(ctx, partyName, ledger)
	uc.metrics.RecordLedgerQuery(false)

	return ledger, nil
}

func (uc *LedgerUseCase) fromCache(ctx context.Context, partyName string) *Ledger {
	if uc.cache == nil {
		return nil
	}

	raw, err := uc.cache.Get(ctx, ledgerCacheKey(partyName))
	if err != nil || raw == "" {
		return nil
	}

	var ledger Ledger
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		uc.logger.Warn().Err(err).Str("party", partyName).Msg("dropping unreadable ledger cache entry")
		_ = uc.cache.Delete(ctx, ledgerCacheKey(partyName))
		return nil
	}

	return &ledger
}

func (uc *LedgerUseCase) toCache(ctx context.Context, partyName string, ledger *Ledger) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(ledger)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, ledgerCacheKey(partyName), string(raw), uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("party", partyName).Msg("failed to cache ledger")
	}
}
