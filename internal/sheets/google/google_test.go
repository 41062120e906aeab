package google

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SERVICE_ACCOUNT_JSON",
		"GOOGLE_SERVICE_ACCOUNT_FILE",
		"GOOGLE_APPLICATION_CREDENTIALS",
	} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		key := key
		if had {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
	}
}

func TestNewMissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), "   ", "Transactions")
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing spreadsheet id" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewMissingCredentials(t *testing.T) {
	clearCredentialEnv(t)

	_, err := New(context.Background(), "sheet-id", "Transactions")
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	if !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewRejectsUnreadableCredentialFile(t *testing.T) {
	clearCredentialEnv(t)
	os.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "/nonexistent/credentials.json")
	t.Cleanup(func() { os.Unsetenv("GOOGLE_SERVICE_ACCOUNT_FILE") })

	_, err := New(context.Background(), "sheet-id", "Transactions")
	if err == nil {
		t.Fatal("expected error for unreadable credentials file")
	}
	if !strings.Contains(err.Error(), "read service account file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAppendRejectsInvalidTransaction(t *testing.T) {
	c := &Client{spreadsheetID: "sheet-id", sheetName: "Transactions"}

	_, err := c.Append(context.Background(), core.Transaction{
		ID:       7,
		Amount:   -10,
		Category: "food",
		Type:     core.TypeExpense,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "refusing to mirror invalid transaction 7") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAppendWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "sheet-id", sheetName: "Transactions"}

	_, err := c.Append(context.Background(), core.Transaction{
		ID:          7,
		Amount:      10,
		Category:    "food",
		Description: "groceries",
		Date:        core.NewDate(2025, 3, 14),
		Type:        core.TypeExpense,
	})
	if err == nil {
		t.Fatal("expected error with no service")
	}
	if !strings.Contains(err.Error(), "sheets service not initialized") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEnsureHeaderWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "sheet-id", sheetName: "Transactions"}

	if err := c.EnsureHeader(context.Background()); err == nil {
		t.Fatal("expected error with no service")
	}
}
