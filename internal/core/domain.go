package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryEntertainment = "Entertainment"
	CategoryHealth        = "Health"
	CategoryBills         = "Bills"
	CategoryShopping      = "Shopping"
	CategoryOther         = "Other"
)

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded expense. The forecasting core only
	// ever reads transactions; the ledger owns them.
	Transaction struct {
		Date        Date
		Category    string
		Amount      Money
		Description string
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
)

// Categories returns the fixed category set in display order.
func Categories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryHealth,
		CategoryBills,
		CategoryShopping,
		CategoryOther,
	}
}

// ValidCategory reports whether name belongs to the fixed category set.
func ValidCategory(name string) bool {
	for _, c := range Categories() {
		if c == name {
			return true
		}
	}
	return false
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !ValidCategory(strings.TrimSpace(t.Category)) {
		return ErrInvalidCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
