package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2025-03-10" {
		t.Fatalf("expected 2025-03-10, got %s", d.String())
	}

	for _, bad := range []string{"", "10/03/2025", "2025-13-01", "not a date"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories() {
		if !ValidCategory(c) {
			t.Fatalf("%q should be valid", c)
		}
	}
	if ValidCategory("Groceries") {
		t.Fatal("unknown category should be invalid")
	}
	if ValidCategory("") {
		t.Fatal("empty category should be invalid")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2025, 1, 1),
		Category:    CategoryFood,
		Amount:      Money{Cents: 100},
		Description: "groceries",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{Time: time.Time{}}, Category: CategoryFood, Amount: Money{Cents: 1}},
		{Date: NewDate(2025, 1, 1), Category: CategoryFood, Amount: Money{Cents: 0}},
		{Date: NewDate(2025, 1, 1), Category: "Unknown", Amount: Money{Cents: 1}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
