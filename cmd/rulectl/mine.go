// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/tomtom215/basketrules/internal/mining"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type mineOptions struct {
	input         string
	minSupport    float64
	minConfidence float64
	workers       int
	objectIDs     bool
	format        string
	limit         int
}

func newMineCmd() *cobra.Command {
	opts := &mineOptions{}

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine association rules from a JSON transaction file",
		Long: `Reads a JSON array of transactions, each an array of item identifiers,
and prints the rules meeting both thresholds sorted by support, confidence
and lift. Use --input - to read standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runMine(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "transaction file, - for stdin")
	cmd.Flags().Float64Var(&opts.minSupport, "min-support", 0.01, "minimum itemset support in (0, 1]")
	cmd.Flags().Float64Var(&opts.minConfidence, "min-confidence", 0.3, "minimum rule confidence in [0, 1]")
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "parallel FP-growth workers")
	cmd.Flags().BoolVar(&opts.objectIDs, "object-ids", false, "require 24 character hexadecimal item ids")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "output format: table or json")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "print at most this many rules, 0 for all")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runMine(ctx context.Context, stdin io.Reader, out io.Writer, opts *mineOptions) error {
	if opts.format != formatTable && opts.format != formatJSON {
		return fmt.Errorf("unknown format %q, want table or json", opts.format)
	}

	transactions, err := loadTransactions(stdin, opts.input, opts.objectIDs)
	if err != nil {
		return err
	}

	pipeline := mining.NewPipeline(mining.PipelineConfig{Workers: opts.workers, SinglePath: true})
	result, err := pipeline.Run(ctx, transactions, mining.Params{
		MinSupport:    opts.minSupport,
		MinConfidence: opts.minConfidence,
	})
	if err != nil {
		return err
	}

	rules := result.Rules
	if opts.limit > 0 && len(rules) > opts.limit {
		rules = rules[:opts.limit]
	}

	if opts.format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Transactions int           `json:"transactions"`
			Itemsets     int           `json:"itemsets"`
			Rules        []mining.Rule `json:"rules"`
		}{result.TransactionCount, len(result.Itemsets), rules})
	}

	renderRules(out, result, rules)
	return nil
}

func loadTransactions(stdin io.Reader, path string, objectIDs bool) ([]mining.Transaction, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var raw [][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	parse := mining.NewItem
	if objectIDs {
		parse = mining.ParseItem
	}

	transactions := make([]mining.Transaction, 0, len(raw))
	for i, ids := range raw {
		items := make([]mining.Item, 0, len(ids))
		for _, id := range ids {
			item, err := parse(id)
			if err != nil {
				return nil, fmt.Errorf("transaction %d: %w", i, err)
			}
			items = append(items, item)
		}
		transactions = append(transactions, mining.NewTransaction(items...))
	}
	return transactions, nil
}

func renderRules(out io.Writer, result *mining.Result, rules []mining.Rule) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Antecedents", "Consequents", "Support", "Confidence", "Lift"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Support", Align: text.AlignRight},
		{Name: "Confidence", Align: text.AlignRight},
		{Name: "Lift", Align: text.AlignRight},
	})
	for _, rule := range rules {
		t.AppendRow(table.Row{
			joinItems(rule.Antecedents),
			joinItems(rule.Consequents),
			fmt.Sprintf("%.4f", rule.Support),
			fmt.Sprintf("%.4f", rule.Confidence),
			fmt.Sprintf("%.4f", rule.Lift),
		})
	}
	t.SetCaption("%d transactions, %d frequent itemsets, %d rules in %s",
		result.TransactionCount, len(result.Itemsets), len(result.Rules), result.Duration)
	t.Render()
}

func joinItems(items []mining.Item) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = string(item)
	}
	return strings.Join(parts, ", ")
}
