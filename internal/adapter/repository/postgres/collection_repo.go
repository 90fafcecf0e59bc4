package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
)

const collectionColumns = `id, loan_no, party_name, amount, date,
	collection_type, principal_paid, interest_paid, created_at`

// CollectionRepository implements usecase.CollectionRepository.
type CollectionRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

// Create inserts a collection inside an existing transaction, so the
// insert commits together with the loan aggregate update.
func (r *CollectionRepository) Create(ctx context.Context, tx usecase.Transaction, c *domain.Collection) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO collections (`+collectionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.LoanNo, c.PartyName, decimalToNumeric(c.Amount),
		timeToPgTimestamptz(c.Date), string(c.CollectionType),
		decimalToNumeric(c.PrincipalPaid), decimalToNumeric(c.InterestPaid),
		timeToPgTimestamptz(c.CreatedAt),
	)

	return err
}

// GetByID retrieves a collection by ID.
func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*domain.Collection, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+collectionColumns+` FROM collections WHERE id = $1`, id)

	c, err := scanCollection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCollectionNotFound
		}

		return nil, err
	}

	return c, nil
}

// ListByLoan returns a loan's collections in replay order: payment date
// first, insertion time as the tiebreaker.
func (r *CollectionRepository) ListByLoan(ctx context.Context, loanNo string) ([]*domain.Collection, error) {
	return r.list(ctx, `
		SELECT `+collectionColumns+` FROM collections
		WHERE loan_no = $1
		ORDER BY date, created_at`, loanNo)
}

// ListByParty returns a borrower's collections, matched case-insensitively,
// oldest first.
func (r *CollectionRepository) ListByParty(ctx context.Context, partyName string) ([]*domain.Collection, error) {
	return r.list(ctx, `
		SELECT `+collectionColumns+` FROM collections
		WHERE LOWER(party_name) = LOWER(TRIM($1))
		ORDER BY date, created_at`, partyName)
}

// List returns every collection, newest first.
func (r *CollectionRepository) List(ctx context.Context) ([]*domain.Collection, error) {
	return r.list(ctx, `SELECT `+collectionColumns+` FROM collections ORDER BY date DESC, created_at DESC`)
}

// ListByFilter returns collections matching the report filter, newest
// first. A day filter covers the whole calendar day.
func (r *CollectionRepository) ListByFilter(ctx context.Context, filter usecase.ReportFilter) ([]*domain.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE 1=1`
	var args []any

	if filter.LoanNo != "" {
		args = append(args, filter.LoanNo)
		query += fmt.Sprintf(` AND loan_no = $%d`, len(args))
	}
	if filter.Day != nil {
		start := dayStart(*filter.Day)
		args = append(args, timeToPgTimestamptz(start), timeToPgTimestamptz(start.AddDate(0, 0, 1)))
		query += fmt.Sprintf(` AND date >= $%d AND date < $%d`, len(args)-1, len(args))
	}
	query += ` ORDER BY date DESC, created_at DESC`

	return r.list(ctx, query, args...)
}

// Update rewrites a collection's mutable columns.
func (r *CollectionRepository) Update(ctx context.Context, c *domain.Collection) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE collections SET
			amount = $2, date = $3, collection_type = $4,
			principal_paid = $5, interest_paid = $6
		WHERE id = $1`,
		c.ID, decimalToNumeric(c.Amount), timeToPgTimestamptz(c.Date),
		string(c.CollectionType), decimalToNumeric(c.PrincipalPaid),
		decimalToNumeric(c.InterestPaid),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCollectionNotFound
	}

	return nil
}

// UpdateSplits rewrites the stored splits for a whole replay in one
// batched round trip inside the reconciliation transaction.
func (r *CollectionRepository) UpdateSplits(ctx context.Context, tx usecase.Transaction, updates []usecase.SplitUpdate) error {
	pgxTx := tx.(*Tx).PgxTx()

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(`
			UPDATE collections SET principal_paid = $2, interest_paid = $3
			WHERE id = $1`,
			u.ID, decimalToNumeric(u.Principal), decimalToNumeric(u.Interest),
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range updates {
		tag, err := results.Exec()
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrCollectionNotFound
		}
	}

	return results.Close()
}

// Delete removes a collection.
func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCollectionNotFound
	}

	return nil
}

// SumAmount totals collection amounts matching the filter.
func (r *CollectionRepository) SumAmount(ctx context.Context, filter usecase.ReportFilter) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM collections WHERE 1=1`
	var args []any

	if filter.LoanNo != "" {
		args = append(args, filter.LoanNo)
		query += fmt.Sprintf(` AND loan_no = $%d`, len(args))
	}
	if filter.Day != nil {
		start := dayStart(*filter.Day)
		args = append(args, timeToPgTimestamptz(start), timeToPgTimestamptz(start.AddDate(0, 0, 1)))
		query += fmt.Sprintf(` AND date >= $%d AND date < $%d`, len(args)-1, len(args))
	}

	var total pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func (r *CollectionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Collection, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}

	return collections, rows.Err()
}

// dayStart normalizes a report day to midnight in its own location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func scanCollection(row pgx.Row) (*domain.Collection, error) {
	var (
		c              domain.Collection
		amount         pgtype.Numeric
		date           pgtype.Timestamptz
		collectionType string
		principal      pgtype.Numeric
		interest       pgtype.Numeric
		createdAt      pgtype.Timestamptz
	)

	err := row.Scan(
		&c.ID, &c.LoanNo, &c.PartyName, &amount, &date, &collectionType,
		&principal, &interest, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.Amount = numericToDecimal(amount)
	c.Date = date.Time
	c.CollectionType = domain.CollectionType(collectionType)
	c.PrincipalPaid = numericToDecimal(principal)
	c.InterestPaid = numericToDecimal(interest)
	c.CreatedAt = createdAt.Time

	return &c, nil
}
