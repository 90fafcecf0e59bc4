package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
)

const loanColumns = `id, loan_number, party_name, father_name, age, date_of_birth,
	occupation, address, mobile, aadhar, witness_mobile, photo_url, proof_url,
	proof_mime_type, amount, interest_rate, duration, advance_interest,
	collection_type, date, disbursed_amount, total_interest, total_payable,
	real_profit, installment_amount, principal_paid, interest_collected,
	status, created_at, updated_at`

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Create creates a new loan.
func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO loans (`+loanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			$28, $29, $30)`,
		loan.ID, loan.LoanNumber, loan.PartyName, loan.FatherName, loan.Age,
		dateOfBirthToPg(loan.DateOfBirth), loan.Occupation, loan.Address,
		loan.Mobile, loan.Aadhar, loan.WitnessMobile, loan.PhotoURL,
		loan.ProofURL, loan.ProofMimeType, decimalToNumeric(loan.Amount),
		decimalToNumeric(loan.InterestRate), loan.Duration,
		decimalToNumeric(loan.AdvanceInterest), string(loan.CollectionType),
		timeToPgTimestamptz(loan.Date), decimalToNumeric(loan.DisbursedAmount),
		decimalToNumeric(loan.TotalInterest), decimalToNumeric(loan.TotalPayable),
		decimalToNumeric(loan.RealProfit), decimalToNumeric(loan.InstallmentAmount),
		decimalToNumeric(loan.PrincipalPaid), decimalToNumeric(loan.InterestCollected),
		string(loan.Status), timeToPgTimestamptz(loan.CreatedAt),
		timeToPgTimestamptz(loan.UpdatedAt),
	)

	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	return r.getOne(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
}

// GetByLoanNumber retrieves a loan by its business key.
func (r *LoanRepository) GetByLoanNumber(ctx context.Context, loanNumber string) (*domain.Loan, error) {
	return r.getOne(ctx, `SELECT `+loanColumns+` FROM loans WHERE loan_number = $1`, loanNumber)
}

// GetByParty retrieves a loan by borrower name, case-insensitively. With
// multiple loans for the same party the most recent one wins, so the
// ledger summary reflects the live agreement rather than a settled one.
func (r *LoanRepository) GetByParty(ctx context.Context, partyName string) (*domain.Loan, error) {
	return r.getOne(ctx, `
		SELECT `+loanColumns+` FROM loans
		WHERE LOWER(party_name) = LOWER(TRIM($1))
		ORDER BY created_at DESC
		LIMIT 1`, partyName)
}

func (r *LoanRepository) getOne(ctx context.Context, query string, arg any) (*domain.Loan, error) {
	row := r.pool.QueryRow(ctx, query, arg)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return loan, nil
}

// List lists loans, optionally filtered by collection type, newest first.
func (r *LoanRepository) List(ctx context.Context, collectionType string) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans`
	args := []any{}
	if collectionType != "" {
		query += ` WHERE collection_type = $1`
		args = append(args, collectionType)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

// Update rewrites every mutable column of a loan.
func (r *LoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE loans SET
			loan_number = $2, party_name = $3, father_name = $4, age = $5,
			date_of_birth = $6, occupation = $7, address = $8, mobile = $9,
			aadhar = $10, witness_mobile = $11, photo_url = $12, proof_url = $13,
			proof_mime_type = $14, amount = $15, interest_rate = $16,
			duration = $17, advance_interest = $18, collection_type = $19,
			date = $20, disbursed_amount = $21, total_interest = $22,
			total_payable = $23, real_profit = $24, installment_amount = $25,
			principal_paid = $26, interest_collected = $27, status = $28,
			updated_at = $29
		WHERE id = $1`,
		loan.ID, loan.LoanNumber, loan.PartyName, loan.FatherName, loan.Age,
		dateOfBirthToPg(loan.DateOfBirth), loan.Occupation, loan.Address,
		loan.Mobile, loan.Aadhar, loan.WitnessMobile, loan.PhotoURL,
		loan.ProofURL, loan.ProofMimeType, decimalToNumeric(loan.Amount),
		decimalToNumeric(loan.InterestRate), loan.Duration,
		decimalToNumeric(loan.AdvanceInterest), string(loan.CollectionType),
		timeToPgTimestamptz(loan.Date), decimalToNumeric(loan.DisbursedAmount),
		decimalToNumeric(loan.TotalInterest), decimalToNumeric(loan.TotalPayable),
		decimalToNumeric(loan.RealProfit), decimalToNumeric(loan.InstallmentAmount),
		decimalToNumeric(loan.PrincipalPaid), decimalToNumeric(loan.InterestCollected),
		string(loan.Status), timeToPgTimestamptz(loan.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// UpdateAggregate writes only the reconciliation-owned columns inside an
// existing transaction.
func (r *LoanRepository) UpdateAggregate(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE loans SET
			principal_paid = $2, interest_collected = $3, status = $4,
			updated_at = $5
		WHERE id = $1`,
		loan.ID, decimalToNumeric(loan.PrincipalPaid),
		decimalToNumeric(loan.InterestCollected), string(loan.Status),
		timeToPgTimestamptz(loan.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// Delete removes a loan. Its collections are left in place so the party
// ledger keeps the history.
func (r *LoanRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		loan           domain.Loan
		dateOfBirth    pgtype.Timestamptz
		amount         pgtype.Numeric
		rate           pgtype.Numeric
		advance        pgtype.Numeric
		collectionType string
		date           pgtype.Timestamptz
		disbursed      pgtype.Numeric
		totalInterest  pgtype.Numeric
		totalPayable   pgtype.Numeric
		realProfit     pgtype.Numeric
		installment    pgtype.Numeric
		principalPaid  pgtype.Numeric
		interestColl   pgtype.Numeric
		status         string
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
	)

	err := row.Scan(
		&loan.ID, &loan.LoanNumber, &loan.PartyName, &loan.FatherName,
		&loan.Age, &dateOfBirth, &loan.Occupation, &loan.Address,
		&loan.Mobile, &loan.Aadhar, &loan.WitnessMobile, &loan.PhotoURL,
		&loan.ProofURL, &loan.ProofMimeType, &amount, &rate, &loan.Duration,
		&advance, &collectionType, &date, &disbursed, &totalInterest,
		&totalPayable, &realProfit, &installment, &principalPaid,
		&interestColl, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dateOfBirth.Valid {
		t := dateOfBirth.Time
		loan.DateOfBirth = &t
	}
	loan.Amount = numericToDecimal(amount)
	loan.InterestRate = numericToDecimal(rate)
	loan.AdvanceInterest = numericToDecimal(advance)
	loan.CollectionType = domain.CollectionType(collectionType)
	loan.Date = date.Time
	loan.DisbursedAmount = numericToDecimal(disbursed)
	loan.TotalInterest = numericToDecimal(totalInterest)
	loan.TotalPayable = numericToDecimal(totalPayable)
	loan.RealProfit = numericToDecimal(realProfit)
	loan.InstallmentAmount = numericToDecimal(installment)
	loan.PrincipalPaid = numericToDecimal(principalPaid)
	loan.InterestCollected = numericToDecimal(interestColl)
	loan.Status = domain.LoanStatus(status)
	loan.CreatedAt = createdAt.Time
	loan.UpdatedAt = updatedAt.Time

	return &loan, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func dateOfBirthToPg(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}

	return pgtype.Timestamptz{Time: *t, Valid: true}
}
