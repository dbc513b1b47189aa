// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/basketrules/internal/auth"
	"github.com/tomtom215/basketrules/internal/config"
)

const testSecret = "test_secret_with_at_least_32_characters_for_testing"

// Only {bread, milk} reaches 0.5 support.
const baskets = `[["bread","milk"],["bread","milk"],["bread","eggs"],["milk","eggs"]]`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "baskets.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestMine_JSON(t *testing.T) {
	out, err := execute(t, "", "mine", "--input", writeInput(t, baskets),
		"--min-support", "0.5", "--min-confidence", "0.6", "--format", "json")
	if err != nil {
		t.Fatalf("mine error = %v\n%s", err, out)
	}

	var got struct {
		Transactions int `json:"transactions"`
		Itemsets     int `json:"itemsets"`
		Rules        []struct {
			Antecedents []string `json:"antecedents"`
			Consequents []string `json:"consequents"`
			Confidence  float64  `json:"confidence"`
		} `json:"rules"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Transactions != 4 || got.Itemsets != 4 {
		t.Errorf("transactions = %d, itemsets = %d, want 4, 4", got.Transactions, got.Itemsets)
	}
	if len(got.Rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(got.Rules))
	}
	for _, rule := range got.Rules {
		pair := rule.Antecedents[0] + ">" + rule.Consequents[0]
		if pair != "bread>milk" && pair != "milk>bread" {
			t.Errorf("unexpected rule %s", pair)
		}
	}
}

func TestMine_TableFromStdin(t *testing.T) {
	out, err := execute(t, baskets, "mine", "--input", "-",
		"--min-support", "0.5", "--min-confidence", "0.6", "--limit", "1")
	if err != nil {
		t.Fatalf("mine error = %v\n%s", err, out)
	}
	for _, want := range []string{"ANTECEDENTS", "CONSEQUENTS", "4 transactions", "2 rules"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "0.6667") != 1 {
		t.Errorf("want exactly one rule row with --limit 1:\n%s", out)
	}
}

func TestMine_Errors(t *testing.T) {
	input := writeInput(t, baskets)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing input", args: []string{"mine"}},
		{name: "bad format", args: []string{"mine", "--input", input, "--format", "xml"}},
		{name: "support out of range", args: []string{"mine", "--input", input, "--min-support", "0"}},
		{name: "object ids required", args: []string{"mine", "--input", input, "--object-ids"}},
		{name: "unreadable file", args: []string{"mine", "--input", filepath.Join(t.TempDir(), "missing.json")}},
		{name: "malformed json", args: []string{"mine", "--input", writeInput(t, `{"not":"a list"}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, "", tt.args...); err == nil {
				t.Errorf("%v succeeded, want error", tt.args)
			}
		})
	}
}

func TestToken(t *testing.T) {
	out, err := execute(t, "", "token", "--subject", "ops", "--role", "admin", "--secret", testSecret)
	if err != nil {
		t.Fatalf("token error = %v\n%s", err, out)
	}

	manager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	claims, err := manager.ValidateToken(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Subject != "ops" || claims.Role != auth.RoleAdmin {
		t.Errorf("claims = %s/%s, want ops/admin", claims.Subject, claims.Role)
	}

	if _, err := execute(t, "", "token", "--subject", "ops", "--secret", "short"); err == nil {
		t.Error("short secret accepted")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "rulectl ") {
		t.Errorf("version output = %q", out)
	}
}
