package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"finovo/internal/core"
	"finovo/internal/log"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects placeholder style, driver and migration set.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) DriverName() string {
	return string(d)
}

// Fixed-width timestamps so text columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLRepository implements Repository over database/sql.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLRepository wraps an open pool. Migrations are the caller's concern.
func NewSQLRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// OpenSQLite creates the database file if needed, migrates it and returns
// a repository.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(SQLite, dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return NewSQLRepository(db, SQLite), nil
}

// OpenPostgres connects with lib/pq, migrates and returns a repository.
func OpenPostgres(ctx context.Context, dsn string) (*SQLRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(Postgres, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return NewSQLRepository(db, Postgres), nil
}

func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// rebind rewrites ? placeholders to $1..$n for postgres.
func (r *SQLRepository) rebind(query string) string {
	if r.dialect != Postgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLRepository) exec(ctx context.Context, db execer, query string, args ...any) (sql.Result, error) {
	return db.ExecContext(ctx, r.rebind(query), args...)
}

// execOne runs a scoped write and maps zero affected rows to ErrNotFound.
func (r *SQLRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.exec(ctx, r.db, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func logger(ctx context.Context) *log.Logger {
	return log.FromContext(ctx).WithComponent(log.ComponentStorage)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseDate(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}
	}
	return d
}

// Optional <-> nullable column helpers.

func nullInt(o core.Optional[int]) sql.NullInt64 {
	v, ok := o.Get()
	return sql.NullInt64{Int64: int64(v), Valid: ok}
}

func nullCents(o core.Optional[core.Money]) sql.NullInt64 {
	v, ok := o.Get()
	return sql.NullInt64{Int64: v.Cents, Valid: ok}
}

func nullBool(o core.Optional[bool]) sql.NullBool {
	v, ok := o.Get()
	return sql.NullBool{Bool: v, Valid: ok}
}

func nullString[T ~string](o core.Optional[T]) sql.NullString {
	v, ok := o.Get()
	return sql.NullString{String: string(v), Valid: ok}
}

func optInt(n sql.NullInt64) core.Optional[int] {
	if !n.Valid {
		return core.None[int]()
	}
	return core.Some(int(n.Int64))
}

func optCents(n sql.NullInt64) core.Optional[core.Money] {
	if !n.Valid {
		return core.None[core.Money]()
	}
	return core.Some(core.Money{Cents: n.Int64})
}

func optBool(n sql.NullBool) core.Optional[bool] {
	if !n.Valid {
		return core.None[bool]()
	}
	return core.Some(n.Bool)
}

func optString[T ~string](n sql.NullString) core.Optional[T] {
	if !n.Valid {
		return core.None[T]()
	}
	return core.Some(T(n.String))
}

type scanner interface {
	Scan(dest ...any) error
}

// Profiles

const profileColumns = `id, email, name, age, monthly_income_cents, current_savings_cents, dependents,
	risk_tolerance, investment_experience, employment_type, has_health_insurance, has_life_insurance,
	monthly_expense_target_cents, emergency_fund_target_cents, created_at, updated_at`

func (r *SQLRepository) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+profileColumns+` FROM users WHERE id = ?`), userID)

	var (
		p                              core.Profile
		age, income, savings, deps     sql.NullInt64
		expenseTarget, emergencyTarget sql.NullInt64
		risk, experience, employment   sql.NullString
		health, life                   sql.NullBool
		createdAt, updatedAt           string
	)
	err := row.Scan(&p.ID, &p.Email, &p.Name, &age, &income, &savings, &deps,
		&risk, &experience, &employment, &health, &life,
		&expenseTarget, &emergencyTarget, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, core.ErrNotFound
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	p.Age = optInt(age)
	p.MonthlyIncome = optCents(income)
	p.CurrentSavings = optCents(savings)
	p.Dependents = optInt(deps)
	p.RiskTolerance = optString[core.RiskTolerance](risk)
	p.InvestmentExperience = optString[core.InvestmentExperience](experience)
	p.EmploymentType = optString[core.EmploymentType](employment)
	p.HasHealthInsurance = optBool(health)
	p.HasLifeInsurance = optBool(life)
	p.MonthlyExpenseTarget = optCents(expenseTarget)
	p.EmergencyFundTarget = optCents(emergencyTarget)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	goals, err := r.ListGoals(ctx, userID)
	if err != nil {
		return core.Profile{}, err
	}
	p.Goals = goals
	return p, nil
}

func (r *SQLRepository) SaveProfile(ctx context.Context, p core.Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := r.exec(ctx, tx, `INSERT INTO users (`+profileColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				email = excluded.email,
				name = excluded.name,
				age = excluded.age,
				monthly_income_cents = excluded.monthly_income_cents,
				current_savings_cents = excluded.current_savings_cents,
				dependents = excluded.dependents,
				risk_tolerance = excluded.risk_tolerance,
				investment_experience = excluded.investment_experience,
				employment_type = excluded.employment_type,
				has_health_insurance = excluded.has_health_insurance,
				has_life_insurance = excluded.has_life_insurance,
				monthly_expense_target_cents = excluded.monthly_expense_target_cents,
				emergency_fund_target_cents = excluded.emergency_fund_target_cents,
				updated_at = excluded.updated_at`,
			p.ID, p.Email, p.Name, nullInt(p.Age), nullCents(p.MonthlyIncome), nullCents(p.CurrentSavings), nullInt(p.Dependents),
			nullString(p.RiskTolerance), nullString(p.InvestmentExperience), nullString(p.EmploymentType),
			nullBool(p.HasHealthInsurance), nullBool(p.HasLifeInsurance),
			nullCents(p.MonthlyExpenseTarget), nullCents(p.EmergencyFundTarget),
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
		if err != nil {
			if isUniqueViolation(err) {
				return core.ErrEmailTaken
			}
			return fmt.Errorf("upsert profile: %w", err)
		}

		for _, g := range p.Goals {
			if err := r.checkGoalOwner(ctx, tx, g.ID, p.ID); err != nil {
				return err
			}
		}
		if _, err := r.exec(ctx, tx, `DELETE FROM financial_goals WHERE user_id = ?`, p.ID); err != nil {
			return fmt.Errorf("clear goals: %w", err)
		}
		for _, g := range p.Goals {
			g.UserID = p.ID
			if g.ID == "" {
				g.ID = core.NewID()
			}
			if err := r.insertGoal(ctx, tx, g); err != nil {
				return err
			}
		}
		return nil
	})
}

// Credentials

func (r *SQLRepository) CreateCredentials(ctx context.Context, c core.Credentials) error {
	_, err := r.exec(ctx, r.db, `INSERT INTO credentials (user_id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		c.UserID, c.Email, c.PasswordHash, formatTime(c.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrEmailTaken
		}
		return fmt.Errorf("create credentials: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetCredentialsByEmail(ctx context.Context, email string) (core.Credentials, error) {
	var (
		c         core.Credentials
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, r.rebind(`SELECT user_id, email, password_hash, created_at FROM credentials WHERE email = ?`), email).
		Scan(&c.UserID, &c.Email, &c.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Credentials{}, core.ErrNotFound
	}
	if err != nil {
		return core.Credentials{}, fmt.Errorf("get credentials: %w", err)
	}
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

func (r *SQLRepository) DeleteCredentials(ctx context.Context, userID string) error {
	if _, err := r.exec(ctx, r.db, `DELETE FROM credentials WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// Expenses

const expenseColumns = `id, user_id, category, amount_cents, description, date, type, created_at`

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e               core.Expense
		date, createdAt string
		typ             string
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Category, &e.Amount.Cents, &e.Description, &date, &typ, &createdAt); err != nil {
		return core.Expense{}, err
	}
	e.Date = parseDate(date)
	e.Type = core.ExpenseType(typ)
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

func (r *SQLRepository) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.exec(ctx, r.db, `INSERT INTO expenses (`+expenseColumns+`, sync_status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Category, e.Amount.Cents, e.Description, e.Date.String(), string(e.Type), formatTime(e.CreatedAt), SyncPending)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	logger(ctx).DebugContext(ctx, "Expense saved", log.FieldEntityID, e.ID, log.FieldUserID, e.UserID, log.FieldAmountCents, e.Amount.Cents)
	return nil
}

func (r *SQLRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	err := r.execOne(ctx, `UPDATE expenses SET category = ?, amount_cents = ?, description = ?, date = ?, type = ?, sync_status = ?
		WHERE id = ? AND user_id = ?`,
		e.Category, e.Amount.Cents, e.Description, e.Date.String(), string(e.Type), SyncPending, e.ID, e.UserID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("update expense: %w", err)
	}
	return err
}

func (r *SQLRepository) GetExpense(ctx context.Context, userID, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND user_id = ?`), id, userID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) DeleteExpense(ctx context.Context, userID, id string) error {
	err := r.execOne(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("delete expense: %w", err)
	}
	return err
}

// ListExpenses returns the user's expenses, newest first.
func (r *SQLRepository) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? ORDER BY date DESC, created_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Investments

const investmentColumns = `id, user_id, type, amount_cents, current_value_cents, returns_cents, date, platform, created_at`

func scanInvestment(s scanner) (core.Investment, error) {
	var (
		i               core.Investment
		date, createdAt string
	)
	if err := s.Scan(&i.ID, &i.UserID, &i.Type, &i.Amount.Cents, &i.CurrentValue.Cents, &i.Returns.Cents, &date, &i.Platform, &createdAt); err != nil {
		return core.Investment{}, err
	}
	i.Date = parseDate(date)
	i.CreatedAt = parseTime(createdAt)
	return i, nil
}

func (r *SQLRepository) CreateInvestment(ctx context.Context, i core.Investment) error {
	_, err := r.exec(ctx, r.db, `INSERT INTO investments (`+investmentColumns+`, sync_status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.UserID, i.Type, i.Amount.Cents, i.CurrentValue.Cents, i.Returns.Cents, i.Date.String(), i.Platform, formatTime(i.CreatedAt), SyncPending)
	if err != nil {
		return fmt.Errorf("create investment: %w", err)
	}
	return nil
}

func (r *SQLRepository) UpdateInvestment(ctx context.Context, i core.Investment) error {
	err := r.execOne(ctx, `UPDATE investments SET type = ?, amount_cents = ?, current_value_cents = ?, returns_cents = ?, date = ?, platform = ?, sync_status = ?
		WHERE id = ? AND user_id = ?`,
		i.Type, i.Amount.Cents, i.CurrentValue.Cents, i.Returns.Cents, i.Date.String(), i.Platform, SyncPending, i.ID, i.UserID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("update investment: %w", err)
	}
	return err
}

func (r *SQLRepository) GetInvestment(ctx context.Context, userID, id string) (core.Investment, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+investmentColumns+` FROM investments WHERE id = ? AND user_id = ?`), id, userID)
	i, err := scanInvestment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Investment{}, core.ErrNotFound
	}
	if err != nil {
		return core.Investment{}, fmt.Errorf("get investment: %w", err)
	}
	return i, nil
}

func (r *SQLRepository) DeleteInvestment(ctx context.Context, userID, id string) error {
	err := r.execOne(ctx, `DELETE FROM investments WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("delete investment: %w", err)
	}
	return err
}

func (r *SQLRepository) ListInvestments(ctx context.Context, userID string) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT `+investmentColumns+` FROM investments WHERE user_id = ? ORDER BY date DESC, created_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var out []core.Investment
	for rows.Next() {
		i, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Goals

const goalColumns = `id, user_id, name, target_cents, current_cents, target_date, priority, category, created_at, updated_at`

func scanGoal(s scanner) (core.Goal, error) {
	var (
		g                    core.Goal
		targetDate           string
		priority, category   string
		createdAt, updatedAt string
	)
	if err := s.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &targetDate, &priority, &category, &createdAt, &updatedAt); err != nil {
		return core.Goal{}, err
	}
	g.TargetDate = parseDate(targetDate)
	g.Priority = core.GoalPriority(priority)
	g.Category = core.GoalCategory(category)
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	return g, nil
}

func (r *SQLRepository) insertGoal(ctx context.Context, db execer, g core.Goal) error {
	_, err := r.exec(ctx, db, `INSERT INTO financial_goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.TargetDate.String(),
		string(g.Priority), string(g.Category), formatTime(g.CreatedAt), formatTime(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// checkGoalOwner fails when id names a goal that belongs to another user.
func (r *SQLRepository) checkGoalOwner(ctx context.Context, tx *sql.Tx, id, userID string) error {
	if id == "" {
		return nil
	}
	var owner string
	err := tx.QueryRowContext(ctx, r.rebind(`SELECT user_id FROM financial_goals WHERE id = ?`), id).Scan(&owner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return fmt.Errorf("check goal owner: %w", err)
	case owner != userID:
		return fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLRepository) CreateGoal(ctx context.Context, g core.Goal) error {
	return r.insertGoal(ctx, r.db, g)
}

func (r *SQLRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	err := r.execOne(ctx, `UPDATE financial_goals SET name = ?, target_cents = ?, current_cents = ?, target_date = ?, priority = ?, category = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.TargetDate.String(), string(g.Priority), string(g.Category),
		formatTime(g.UpdatedAt), g.ID, g.UserID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("update goal: %w", err)
	}
	return err
}

func (r *SQLRepository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+goalColumns+` FROM financial_goals WHERE id = ? AND user_id = ?`), id, userID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (r *SQLRepository) DeleteGoal(ctx context.Context, userID, id string) error {
	err := r.execOne(ctx, `DELETE FROM financial_goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("delete goal: %w", err)
	}
	return err
}

func (r *SQLRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT `+goalColumns+` FROM financial_goals WHERE user_id = ? ORDER BY created_at`), userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Sync bookkeeping

func syncTable(kind core.EntryKind) (string, error) {
	switch kind {
	case core.KindExpense:
		return "expenses", nil
	case core.KindInvestment:
		return "investments", nil
	}
	return "", fmt.Errorf("no sync table for %q", kind)
}

// PendingSync returns the oldest pending expense and investment rows.
func (r *SQLRepository) PendingSync(ctx context.Context, limit int) ([]core.SyncRef, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT kind, id, user_id, created_at FROM (
			SELECT 'expense' AS kind, id, user_id, created_at FROM expenses WHERE sync_status = ?
			UNION ALL
			SELECT 'investment' AS kind, id, user_id, created_at FROM investments WHERE sync_status = ?
		) pending ORDER BY created_at LIMIT ?`), SyncPending, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync rows: %w", err)
	}
	defer rows.Close()

	var out []core.SyncRef
	for rows.Next() {
		var (
			ref             core.SyncRef
			kind, createdAt string
		)
		if err := rows.Scan(&kind, &ref.ID, &ref.UserID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending row: %w", err)
		}
		ref.Kind = core.EntryKind(kind)
		ref.CreatedAt = parseTime(createdAt)
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (r *SQLRepository) markSync(ctx context.Context, kind core.EntryKind, id, status string) error {
	table, err := syncTable(kind)
	if err != nil {
		return err
	}
	if _, err := r.exec(ctx, r.db, `UPDATE `+table+` SET sync_status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("mark %s %s: %w", kind, status, err)
	}
	return nil
}

func (r *SQLRepository) MarkSynced(ctx context.Context, kind core.EntryKind, id string) error {
	if err := r.markSync(ctx, kind, id, SyncSynced); err != nil {
		return err
	}
	logger(ctx).InfoContext(ctx, "Ledger row marked as synced", log.FieldEntryKind, kind, log.FieldEntityID, id)
	return nil
}

func (r *SQLRepository) MarkSyncError(ctx context.Context, kind core.EntryKind, id string) error {
	if err := r.markSync(ctx, kind, id, SyncError); err != nil {
		return err
	}
	logger(ctx).WarnContext(ctx, "Ledger row marked with sync error", log.FieldEntryKind, kind, log.FieldEntityID, id)
	return nil
}

func (r *SQLRepository) DeleteUserData(ctx context.Context, userID string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM expenses WHERE user_id = ?`,
			`DELETE FROM investments WHERE user_id = ?`,
			`DELETE FROM financial_goals WHERE user_id = ?`,
			`DELETE FROM users WHERE id = ?`,
		} {
			if _, err := r.exec(ctx, tx, q, userID); err != nil {
				return fmt.Errorf("delete user data: %w", err)
			}
		}
		return nil
	})
}

var _ Repository = (*SQLRepository)(nil)
