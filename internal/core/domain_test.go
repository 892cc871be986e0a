package core

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestEntryInputValidate(t *testing.T) {
	good := EntryInput{
		UserID:   1,
		Category: "Food",
		Amount:   Money{Cents: 100},
		IsIncome: false,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}

	bads := []EntryInput{
		{UserID: 1, Category: "", Amount: Money{Cents: 100}},
		{UserID: 1, Category: "  ", Amount: Money{Cents: 100}},
		{UserID: 1, Category: "Food", Amount: Money{Cents: 0}},
		{UserID: 1, Category: "Food", Amount: Money{Cents: 100}, Description: strPtr(string(long))},
	}
	for i, in := range bads {
		if err := in.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetInputValidate(t *testing.T) {
	good := BudgetInput{UserID: 1, Category: "Food", Limit: Money{Cents: 10000}, Month: 4, Year: 2025}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []BudgetInput{
		{UserID: 1, Category: "", Limit: Money{Cents: 1}, Month: 1, Year: 2025},
		{UserID: 1, Category: "Food", Limit: Money{Cents: 0}, Month: 1, Year: 2025},
		{UserID: 1, Category: "Food", Limit: Money{Cents: 1}, Month: 0, Year: 2025},
		{UserID: 1, Category: "Food", Limit: Money{Cents: 1}, Month: 13, Year: 2025},
		{UserID: 1, Category: "Food", Limit: Money{Cents: 1}, Month: 1, Year: 99},
	}
	for i, in := range bads {
		if err := in.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestPatchValidate(t *testing.T) {
	// Empty patches are valid: nothing to check.
	if err := (EntryPatch{}).Validate(); err != nil {
		t.Fatalf("empty entry patch: %v", err)
	}
	if err := (BudgetPatch{}).Validate(); err != nil {
		t.Fatalf("empty budget patch: %v", err)
	}

	bad := Money{Cents: 0}
	if err := (EntryPatch{Amount: &bad}).Validate(); err == nil {
		t.Fatal("expected error for zero amount patch")
	}
	m := 13
	if err := (BudgetPatch{Month: &m}).Validate(); err == nil {
		t.Fatal("expected error for month 13 patch")
	}
}

func TestMonthYear(t *testing.T) {
	// 23:30 on March 31st UTC is already April in Helsinki (UTC+3 in
	// summer) but still March in New York. The policy location decides.
	ts := time.Date(2025, time.March, 31, 23, 30, 0, 0, time.UTC)

	helsinki, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	if m, y := MonthYear(ts, helsinki); m != 4 || y != 2025 {
		t.Fatalf("helsinki: got %d/%d, want 4/2025", m, y)
	}
	if m, y := MonthYear(ts, newYork); m != 3 || y != 2025 {
		t.Fatalf("new york: got %d/%d, want 3/2025", m, y)
	}
	if m, y := MonthYear(ts, time.UTC); m != 3 || y != 2025 {
		t.Fatalf("utc: got %d/%d, want 3/2025", m, y)
	}
}
