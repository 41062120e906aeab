package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
)

func TestTransactionsRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/transactions"},
		{http.MethodPost, "/api/transactions"},
		{http.MethodGet, "/api/transactions/1"},
		{http.MethodPatch, "/api/transactions/1"},
		{http.MethodDelete, "/api/transactions/1"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := doRequest(t, srv, tc.method, tc.path, "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", rec.Code)
			}
		})
	}
}

func TestTransactionCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := signup(t, srv, "ada")

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"amount":12.5,"category":"food","description":"groceries","date":"2025-03-14","type":"expense"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, body %s", rec.Code, rec.Body.String())
	}

	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if created.Amount != 12.5 {
		t.Errorf("amount: got %v, want 12.5", created.Amount)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got status %d", rec.Code)
	}
	var listed []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("list: got %d rows, want 1", len(listed))
	}

	path := "/api/transactions/" + itoa(created.ID)

	rec = doRequest(t, srv, http.MethodGet, path, "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: got status %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPatch, path, `{"amount":20}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var patched core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &patched); err != nil {
		t.Fatalf("decode patched: %v", err)
	}
	if patched.Amount != 20 {
		t.Errorf("patched amount: got %v, want 20", patched.Amount)
	}
	if patched.Description != "groceries" {
		t.Errorf("patch must not clear untouched fields, description: %q", patched.Description)
	}

	rec = doRequest(t, srv, http.MethodDelete, path, "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "deleted") {
		t.Errorf("delete body: got %s", rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, path, "", cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got status %d, want 404", rec.Code)
	}
}

func TestTransactionValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := signup(t, srv, "ada")

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", `{"amount":-5}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}

	var body struct {
		Error  string            `json:"error"`
		Fields []core.FieldError `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "validation failed" {
		t.Errorf("error: got %q", body.Error)
	}
	if len(body.Fields) < 4 {
		t.Errorf("expected every invalid field reported, got %v", body.Fields)
	}
	found := false
	for _, f := range body.Fields {
		if f.Field == "amount" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an amount field error, got %v", body.Fields)
	}
}

func TestTransactionOwnership(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := signup(t, srv, "alice")
	bob := signup(t, srv, "bob")

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"amount":40,"category":"travel","description":"train ticket","date":"2025-04-01","type":"expense"}`, alice)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d", rec.Code)
	}
	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	path := "/api/transactions/" + itoa(created.ID)

	// A row that exists but belongs to someone else is 403; a row that
	// does not exist at all is 404, even for the stranger.
	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		body := ""
		if method == http.MethodPatch {
			body = `{"amount":1}`
		}
		rec = doRequest(t, srv, method, path, body, bob)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s as stranger: got status %d, want 403", method, rec.Code)
		}
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/99999", "", bob)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing row: got status %d, want 404", rec.Code)
	}

	// Lists never leak across users.
	rec = doRequest(t, srv, http.MethodGet, "/api/transactions", "", bob)
	var listed []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("stranger's list: got %d rows, want 0", len(listed))
	}
}

func TestTransactionInvalidID(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := signup(t, srv, "ada")

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions/abc", "", cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestTransactionPatchCannotMoveOwnership(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := signup(t, srv, "ada")

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"amount":10,"category":"food","description":"lunch","date":"2025-05-02","type":"expense"}`, cookie)
	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	rec = doRequest(t, srv, http.MethodPatch, "/api/transactions/"+itoa(created.ID),
		`{"id":777,"userId":42,"amount":11}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: got status %d, body %s", rec.Code, rec.Body.String())
	}

	var patched core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &patched); err != nil {
		t.Fatalf("decode patched: %v", err)
	}
	if patched.ID != created.ID {
		t.Errorf("id: got %d, want %d", patched.ID, created.ID)
	}
	if patched.UserID != created.UserID {
		t.Errorf("userId: got %d, want %d", patched.UserID, created.UserID)
	}
	if patched.Amount != 11 {
		t.Errorf("amount: got %v, want 11", patched.Amount)
	}
}

func TestTransactionAmountRoundTripsExactly(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := signup(t, srv, "ada")

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"amount":33.3333,"category":"food","description":"split bill","date":"2025-06-20","type":"expense"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d", rec.Code)
	}

	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	// Amounts are stored as given: no rounding, no cent snapping.
	if created.Amount != 33.3333 {
		t.Errorf("amount: got %v, want 33.3333", created.Amount)
	}
}
