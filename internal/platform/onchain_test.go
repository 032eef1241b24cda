// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package platform

import (
	"reflect"
	"testing"
)

func TestNormalizeOnchainFromChart(t *testing.T) {
	// Upstream omits the summary totals; everything derives from the chart.
	raw := onchainSummaryResponse{
		Name:     "Uniswap",
		Category: "DEX",
		Chains:   []string{"Ethereum", "Arbitrum"},
		TotalDataChart: [][]float64{
			{1750000000, 500},
			{1750086400, 800},
			{1750172800, 1000},
		},
	}

	data := normalizeOnchain(raw, "uniswap", "Uniswap Labs")

	oc := data.Onchain
	if oc == nil {
		t.Fatal("expected onchain metrics")
	}
	if oc.DailyFees != 1000 {
		t.Errorf("dailyFees = %v, want 1000", oc.DailyFees)
	}
	if oc.PreviousDayFees != 800 {
		t.Errorf("previousDayFees = %v, want 800", oc.PreviousDayFees)
	}
	if oc.DailyChangePercent != 25 {
		t.Errorf("dailyChangePercent = %v, want 25", oc.DailyChangePercent)
	}
	if oc.WeeklyFees != 2300 {
		t.Errorf("weeklyFees = %v, want 2300 (sum of chart)", oc.WeeklyFees)
	}
	if oc.TotalAllTime != 1000*365 {
		t.Errorf("totalAllTime fallback = %v, want %v", oc.TotalAllTime, 1000*365.0)
	}

	// Fee-derived estimates.
	if oc.Transactions != 1000 {
		t.Errorf("transactions = %d, want 1000", oc.Transactions)
	}
	if oc.UniqueAddresses != 800 {
		t.Errorf("uniqueAddresses = %d, want 800", oc.UniqueAddresses)
	}
	if oc.AvgTxValue != 1 {
		t.Errorf("avgTxValue = %v, want 1", oc.AvgTxValue)
	}

	if data.Profile.Extra["category"] != "DEX" {
		t.Errorf("expected category in profile extra, got %v", data.Profile.Extra)
	}
}

func TestNormalizeOnchainPrefersReportedTotals(t *testing.T) {
	raw := onchainSummaryResponse{
		Name:          "Aave",
		Total24h:      5000,
		Total48hTo24h: 4000,
		Total7d:       30000,
		TotalAllTime:  9000000,
		TotalDataChart: [][]float64{
			{1750000000, 1},
			{1750086400, 2},
		},
	}

	oc := normalizeOnchain(raw, "aave", "Aave").Onchain
	if oc.DailyFees != 5000 {
		t.Errorf("dailyFees = %v, want reported 5000", oc.DailyFees)
	}
	if oc.PreviousDayFees != 4000 {
		t.Errorf("previousDayFees = %v, want reported 4000", oc.PreviousDayFees)
	}
	if oc.WeeklyFees != 30000 {
		t.Errorf("weeklyFees = %v, want reported 30000", oc.WeeklyFees)
	}
	if oc.TotalAllTime != 9000000 {
		t.Errorf("totalAllTime = %v, want reported 9000000", oc.TotalAllTime)
	}
}

func TestNormalizeOnchainZeroFees(t *testing.T) {
	oc := normalizeOnchain(onchainSummaryResponse{Name: "Dormant"}, "dormant", "Dormant").Onchain

	if oc.DailyFees != 0 || oc.DailyChangePercent != 0 {
		t.Errorf("expected zeroed fees, got %+v", oc)
	}
	if oc.Transactions != 0 {
		t.Errorf("transactions = %d, want 0", oc.Transactions)
	}
	// No division by zero: avgTxValue stays 0.
	if oc.AvgTxValue != 0 {
		t.Errorf("avgTxValue = %v, want 0", oc.AvgTxValue)
	}
}

func TestNormalizeOnchainIdempotent(t *testing.T) {
	raw := onchainSummaryResponse{
		Name:           "Uniswap",
		TotalDataChart: [][]float64{{1750000000, 800}, {1750086400, 1000}},
	}

	a := normalizeOnchain(raw, "uniswap", "Uniswap Labs")
	b := normalizeOnchain(raw, "uniswap", "Uniswap Labs")
	if !reflect.DeepEqual(a, b) {
		t.Error("normalize is not idempotent for identical inputs")
	}
}

func TestFeeHistoryFromChart(t *testing.T) {
	chart := [][]float64{
		{1750000000, 100},
		{1750086400},      // malformed, skipped
		{1750172800, 300},
	}

	points := feeHistoryFromChart(chart, 30)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Fees != 100 || points[1].Fees != 300 {
		t.Errorf("unexpected fees: %+v", points)
	}
	if points[0].Date == "" {
		t.Error("expected ISO date on fee point")
	}

	// Caps at max, keeping the most recent rows.
	many := make([][]float64, 50)
	for i := range many {
		many[i] = []float64{float64(1750000000 + i*86400), float64(i)}
	}
	capped := feeHistoryFromChart(many, 30)
	if len(capped) != 30 {
		t.Fatalf("expected 30 points, got %d", len(capped))
	}
	if capped[len(capped)-1].Fees != 49 {
		t.Errorf("expected most recent point kept, got %v", capped[len(capped)-1].Fees)
	}
}
