package core

import (
	"strings"
	"time"
)

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

const dateLayout = "2006-01-02"

type (
	TransactionType string

	BudgetPeriod string

	// Date is a calendar day. It marshals as YYYY-MM-DD and accepts either
	// that layout or a full RFC 3339 timestamp on input, since dashboard
	// clients send whichever their date picker produced.
	Date struct {
		time.Time
	}

	User struct {
		ID        int64     `json:"id"`
		Username  string    `json:"username"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Password  string    `json:"-"`
		CreatedAt time.Time `json:"createdAt"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		UserID      int64           `json:"userId"`
		Amount      float64         `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		Type        TransactionType `json:"type"`
		Recurring   bool            `json:"recurring"`
		Note        string          `json:"note,omitempty"`
	}

	Income struct {
		ID        int64   `json:"id"`
		UserID    int64   `json:"userId"`
		Source    string  `json:"source"`
		Amount    float64 `json:"amount"`
		Date      Date    `json:"date"`
		Recurring bool    `json:"recurring"`
	}

	Budget struct {
		ID       int64        `json:"id"`
		UserID   int64        `json:"userId"`
		Category string       `json:"category"`
		Amount   float64      `json:"amount"`
		Period   BudgetPeriod `json:"period"`
	}

	Goal struct {
		ID            int64   `json:"id"`
		UserID        int64   `json:"userId"`
		Name          string  `json:"name"`
		TargetAmount  float64 `json:"targetAmount"`
		CurrentAmount float64 `json:"currentAmount"`
		Deadline      Date    `json:"deadline"`
	}

	Category struct {
		ID     int64           `json:"id"`
		UserID int64           `json:"userId"`
		Name   string          `json:"name"`
		Type   TransactionType `json:"type"`
	}

	// Notification rows are created by the server (budget alerts); the API
	// only ever flips Read from false to true, never back.
	Notification struct {
		ID        int64     `json:"id"`
		UserID    int64     `json:"userId"`
		Message   string    `json:"message"`
		Read      bool      `json:"read"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// FieldError names one invalid field of a request body. Validate methods
	// collect every problem instead of stopping at the first, so a client
	// sees the whole list in one round trip.
	FieldError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
)

func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

func (p BudgetPeriod) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

func (u User) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(u.Username) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	}
	if strings.TrimSpace(u.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(u.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if !strings.Contains(u.Email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "email is invalid"})
	}
	if u.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else if len(u.Password) < 6 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 6 characters"})
	}
	return errs
}

func (t Transaction) Validate() []FieldError {
	var errs []FieldError
	if t.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if strings.TrimSpace(t.Category) == "" {
		errs = append(errs, FieldError{Field: "category", Message: "category is required"})
	}
	if strings.TrimSpace(t.Description) == "" {
		errs = append(errs, FieldError{Field: "description", Message: "description is required"})
	}
	if t.Date.IsZero() {
		errs = append(errs, FieldError{Field: "date", Message: "date is required"})
	}
	if !t.Type.Valid() {
		errs = append(errs, FieldError{Field: "type", Message: "type must be income or expense"})
	}
	return errs
}

func (i Income) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(i.Source) == "" {
		errs = append(errs, FieldError{Field: "source", Message: "source is required"})
	}
	if i.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if i.Date.IsZero() {
		errs = append(errs, FieldError{Field: "date", Message: "date is required"})
	}
	return errs
}

func (b Budget) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(b.Category) == "" {
		errs = append(errs, FieldError{Field: "category", Message: "category is required"})
	}
	if b.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if !b.Period.Valid() {
		errs = append(errs, FieldError{Field: "period", Message: "period must be weekly, monthly or yearly"})
	}
	return errs
}

func (g Goal) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if g.TargetAmount <= 0 {
		errs = append(errs, FieldError{Field: "targetAmount", Message: "targetAmount must be greater than zero"})
	}
	if g.CurrentAmount < 0 {
		errs = append(errs, FieldError{Field: "currentAmount", Message: "currentAmount cannot be negative"})
	}
	return errs
}

func (c Category) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if !c.Type.Valid() {
		errs = append(errs, FieldError{Field: "type", Message: "type must be income or expense"})
	}
	return errs
}

func (n Notification) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(n.Message) == "" {
		errs = append(errs, FieldError{Field: "message", Message: "message is required"})
	}
	return errs
}
