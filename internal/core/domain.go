package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	ExpenseType string

	Expense struct {
		ID          string      `json:"id"`
		UserID      string      `json:"user_id"`
		Category    string      `json:"category"`
		Amount      Money       `json:"amount"`
		Description string      `json:"description"`
		Date        Date        `json:"date"`
		Type        ExpenseType `json:"type"`
		CreatedAt   time.Time   `json:"created_at"`
	}

	Investment struct {
		ID           string    `json:"id"`
		UserID       string    `json:"user_id"`
		Type         string    `json:"type"`
		Amount       Money     `json:"amount"`
		CurrentValue Money     `json:"current_value"`
		Returns      Money     `json:"returns"`
		Date         Date      `json:"date"`
		Platform     string    `json:"platform"`
		CreatedAt    time.Time `json:"created_at"`
	}

	// EntryKind names a ledger row type for events and sync bookkeeping.
	EntryKind string

	// SyncRef points at a ledger row waiting to be mirrored.
	SyncRef struct {
		Kind      EntryKind
		ID        string
		UserID    string
		CreatedAt time.Time
	}
)

const (
	ExpenseNeed    ExpenseType = "need"
	ExpenseWant    ExpenseType = "want"
	ExpenseSavings ExpenseType = "savings"

	KindExpense    EntryKind = "expense"
	KindInvestment EntryKind = "investment"
	KindGoal       EntryKind = "goal"
	KindProfile    EntryKind = "profile"
	KindAccount    EntryKind = "account"

	// SavingsPlatform marks investments created from a savings expense.
	SavingsPlatform = "Savings"

	maxDescription = 200
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyCategory      = errors.New("empty category")
	ErrInvalidExpenseType = errors.New("invalid expense type")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrProfileIncomplete  = errors.New("profile incomplete")
)

// NewID returns a fresh row identifier.
func NewID() string {
	return uuid.NewString()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Today returns the current UTC date.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MonthKey returns YYYY-MM.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t ExpenseType) IsValid() bool {
	switch t {
	case ExpenseNeed, ExpenseWant, ExpenseSavings:
		return true
	}
	return false
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(e.Description) > maxDescription {
		return ErrDescriptionTooLong
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Type.IsValid() {
		return ErrInvalidExpenseType
	}
	return nil
}

// AsInvestment turns a savings expense into the investment row that records
// it. The investment starts at its cost with no returns.
func (e Expense) AsInvestment() Investment {
	return Investment{
		ID:           e.ID,
		UserID:       e.UserID,
		Type:         e.Category,
		Amount:       e.Amount,
		CurrentValue: e.Amount,
		Returns:      Money{},
		Date:         e.Date,
		Platform:     SavingsPlatform,
		CreatedAt:    e.CreatedAt,
	}
}

func (i Investment) Validate() error {
	if strings.TrimSpace(i.Type) == "" {
		return ErrEmptyCategory
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if i.CurrentValue.Cents < 0 {
		return ErrInvalidAmount
	}
	return i.Date.Validate()
}

// Revalue sets the current value and derives returns from it.
func (i *Investment) Revalue(current Money) {
	i.CurrentValue = current
	i.Returns = current.Sub(i.Amount)
}
