package core

import (
	"errors"
	"strings"
	"time"
)

type (
	RiskTolerance        string
	InvestmentExperience string
	EmploymentType       string
	GoalPriority         string
	GoalCategory         string
)

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"

	ExperienceBeginner     InvestmentExperience = "beginner"
	ExperienceIntermediate InvestmentExperience = "intermediate"
	ExperienceAdvanced     InvestmentExperience = "advanced"

	EmploymentSalaried   EmploymentType = "salaried"
	EmploymentBusiness   EmploymentType = "business"
	EmploymentFreelancer EmploymentType = "freelancer"
	EmploymentStudent    EmploymentType = "student"

	PriorityHigh   GoalPriority = "high"
	PriorityMedium GoalPriority = "medium"
	PriorityLow    GoalPriority = "low"

	GoalHome       GoalCategory = "home"
	GoalCar        GoalCategory = "car"
	GoalEducation  GoalCategory = "education"
	GoalWedding    GoalCategory = "wedding"
	GoalRetirement GoalCategory = "retirement"
	GoalTravel     GoalCategory = "travel"
	GoalEmergency  GoalCategory = "emergency"
	GoalOther      GoalCategory = "other"
)

var (
	ErrInvalidEnum    = errors.New("invalid value")
	ErrInvalidAge     = errors.New("invalid age")
	ErrEmptyGoalName  = errors.New("empty goal name")
	ErrInvalidProfile = errors.New("invalid profile")
)

func (r RiskTolerance) IsValid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

func (e InvestmentExperience) IsValid() bool {
	return e == ExperienceBeginner || e == ExperienceIntermediate || e == ExperienceAdvanced
}

func (e EmploymentType) IsValid() bool {
	switch e {
	case EmploymentSalaried, EmploymentBusiness, EmploymentFreelancer, EmploymentStudent:
		return true
	}
	return false
}

func (p GoalPriority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

func (c GoalCategory) IsValid() bool {
	switch c {
	case GoalHome, GoalCar, GoalEducation, GoalWedding, GoalRetirement, GoalTravel, GoalEmergency, GoalOther:
		return true
	}
	return false
}

// Profile is the user's financial profile. Fields the user has not filled
// in yet are missing, not zero.
type Profile struct {
	ID                   string                         `json:"id"`
	Email                string                         `json:"email"`
	Name                 string                         `json:"name"`
	Age                  Optional[int]                  `json:"age"`
	MonthlyIncome        Optional[Money]                `json:"monthly_income"`
	CurrentSavings       Optional[Money]                `json:"current_savings"`
	Dependents           Optional[int]                  `json:"dependents"`
	RiskTolerance        Optional[RiskTolerance]        `json:"risk_tolerance"`
	InvestmentExperience Optional[InvestmentExperience] `json:"investment_experience"`
	EmploymentType       Optional[EmploymentType]       `json:"employment_type"`
	HasHealthInsurance   Optional[bool]                 `json:"has_health_insurance"`
	HasLifeInsurance     Optional[bool]                 `json:"has_life_insurance"`
	MonthlyExpenseTarget Optional[Money]                `json:"monthly_expense_target"`
	EmergencyFundTarget  Optional[Money]                `json:"emergency_fund_target"`
	Goals                []Goal                         `json:"financial_goals"`
	CreatedAt            time.Time                      `json:"created_at"`
	UpdatedAt            time.Time                      `json:"updated_at"`
}

// NewProfile returns the bare profile created at sign-up.
func NewProfile(id, email, name string) Profile {
	now := time.Now().UTC()
	return Profile{
		ID:        id,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Field names reported by MissingProfileFields.
const (
	FieldAge                  = "age"
	FieldMonthlyIncome        = "monthly_income"
	FieldMonthlyExpenseTarget = "monthly_expense_target"
	FieldEmergencyFundTarget  = "emergency_fund_target"
)

// MissingProfileFields lists the required fields that are still missing,
// in a stable order.
func MissingProfileFields(p Profile) []string {
	var missing []string
	if !p.MonthlyIncome.IsSet() {
		missing = append(missing, FieldMonthlyIncome)
	}
	if !p.Age.IsSet() {
		missing = append(missing, FieldAge)
	}
	if !p.MonthlyExpenseTarget.IsSet() {
		missing = append(missing, FieldMonthlyExpenseTarget)
	}
	if !p.EmergencyFundTarget.IsSet() {
		missing = append(missing, FieldEmergencyFundTarget)
	}
	return missing
}

// ProfileComplete reports whether income, age, monthly expense target and
// emergency fund target are all present.
func ProfileComplete(p Profile) bool {
	return len(MissingProfileFields(p)) == 0
}

func (p Profile) Validate() error {
	if age, ok := p.Age.Get(); ok && (age <= 0 || age > 120) {
		return ErrInvalidAge
	}
	if n, ok := p.Dependents.Get(); ok && n < 0 {
		return errors.Join(ErrInvalidProfile, errors.New("dependents must not be negative"))
	}
	for _, m := range []Optional[Money]{p.MonthlyIncome, p.CurrentSavings, p.MonthlyExpenseTarget, p.EmergencyFundTarget} {
		if v, ok := m.Get(); ok && v.Cents < 0 {
			return ErrInvalidAmount
		}
	}
	if v, ok := p.RiskTolerance.Get(); ok && !v.IsValid() {
		return errors.Join(ErrInvalidEnum, errors.New("risk_tolerance"))
	}
	if v, ok := p.InvestmentExperience.Get(); ok && !v.IsValid() {
		return errors.Join(ErrInvalidEnum, errors.New("investment_experience"))
	}
	if v, ok := p.EmploymentType.Get(); ok && !v.IsValid() {
		return errors.Join(ErrInvalidEnum, errors.New("employment_type"))
	}
	for _, g := range p.Goals {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Credentials are the sign-in secrets stored next to a profile.
type Credentials struct {
	UserID       string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Goal is a savings target tracked on the dashboard.
type Goal struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	Name          string       `json:"name"`
	TargetAmount  Money        `json:"target_amount"`
	CurrentAmount Money        `json:"current_amount"`
	TargetDate    Date         `json:"target_date"`
	Priority      GoalPriority `json:"priority"`
	Category      GoalCategory `json:"category"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewGoal creates a goal with a fresh id.
func NewGoal(userID, name string, target Money, targetDate Date, priority GoalPriority, category GoalCategory) Goal {
	now := time.Now().UTC()
	return Goal{
		ID:           NewID(),
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		TargetAmount: target,
		TargetDate:   targetDate,
		Priority:     priority,
		Category:     category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !g.Priority.IsValid() {
		return errors.Join(ErrInvalidEnum, errors.New("priority"))
	}
	if !g.Category.IsValid() {
		return errors.Join(ErrInvalidEnum, errors.New("category"))
	}
	return nil
}

// Progress is current over target as a percentage. It can exceed 100.
func (g Goal) Progress() float64 {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	return float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
}
