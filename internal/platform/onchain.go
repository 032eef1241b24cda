// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package platform

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/metrics"
	"github.com/jpcarmona/socialpulse/internal/models"
)

// onchainHistoryPoints caps the daily-fees series kept in the snapshot.
const onchainHistoryPoints = 30

// onchainSummaryResponse is the upstream protocol fee summary payload.
// TotalDataChart rows are [epochSeconds, dailyFees] pairs in ascending
// date order.
type onchainSummaryResponse struct {
	Name           string      `json:"name"`
	Category       string      `json:"category"`
	Chains         []string    `json:"chains"`
	Total24h       float64     `json:"total24h"`
	Total48hTo24h  float64     `json:"total48hto24h"`
	Total7d        float64     `json:"total7d"`
	TotalAllTime   float64     `json:"totalAllTime"`
	TotalDataChart [][]float64 `json:"totalDataChart"`
}

// Onchain normalizes protocol fee data into the canonical snapshot.
//
// Transactions, unique addresses, and average transaction value are
// fee-derived estimates when the upstream does not report them; they are
// approximations, not ground truth.
type Onchain struct {
	client  *Client
	baseURL string
	now     func() time.Time
}

// NewOnchain creates the on-chain normalizer.
func NewOnchain(cfg config.UpstreamConfig) *Onchain {
	return &Onchain{
		client:  NewClient("onchain", cfg),
		baseURL: cfg.BaseURL,
		now:     time.Now,
	}
}

// Platform implements Normalizer.
func (o *Onchain) Platform() models.Platform { return models.PlatformOnchain }

// Fetch pulls the protocol fee summary and builds the canonical snapshot.
// Unlike the social platforms, an upstream failure here is a hard error:
// there is no meaningful zeroed fallback for fee data.
func (o *Onchain) Fetch(ctx context.Context, identifier, companyName string) (*models.SocialMediaData, error) {
	started := o.now()
	var raw onchainSummaryResponse
	reqURL := fmt.Sprintf("%s/summary/fees/%s", o.baseURL, url.PathEscape(identifier))
	err := o.client.GetJSON(ctx, reqURL, &raw)
	metrics.RecordUpstreamFetch("onchain", time.Since(started), err)
	if err != nil {
		return nil, fmt.Errorf("fetch onchain fees %s: %w", identifier, err)
	}

	return normalizeOnchain(raw, identifier, companyName), nil
}

// normalizeOnchain reshapes the fee summary into the canonical snapshot.
// Pure: identical inputs produce identical output.
func normalizeOnchain(raw onchainSummaryResponse, identifier, companyName string) *models.SocialMediaData {
	feeHistory := feeHistoryFromChart(raw.TotalDataChart, onchainHistoryPoints)

	var lastPoint, secondToLast float64
	if n := len(feeHistory); n > 0 {
		lastPoint = feeHistory[n-1].Fees
		if n > 1 {
			secondToLast = feeHistory[n-2].Fees
		}
	}

	dailyFees := coalesceFloat(raw.Total24h, lastPoint)
	previousDayFees := coalesceFloat(raw.Total48hTo24h, secondToLast)

	var last7Sum float64
	for i := len(feeHistory) - 1; i >= 0 && i >= len(feeHistory)-7; i-- {
		last7Sum += feeHistory[i].Fees
	}
	weeklyFees := coalesceFloat(raw.Total7d, last7Sum)
	totalAllTime := coalesceFloat(raw.TotalAllTime, dailyFees*365)

	transactions := ceilInt64(dailyFees)
	uniqueAddresses := ceilInt64(dailyFees * 0.8)
	var avgTxValue float64
	if transactions > 0 {
		avgTxValue = dailyFees / float64(transactions)
	}

	extra := map[string]any{}
	if raw.Category != "" {
		extra["category"] = raw.Category
	}
	if len(raw.Chains) > 0 {
		extra["chains"] = raw.Chains
	}
	if len(extra) == 0 {
		extra = nil
	}

	return &models.SocialMediaData{
		Success:     true,
		Platform:    models.PlatformOnchain,
		Identifier:  identifier,
		CompanyName: companyName,
		Profile: models.Profile{
			Name:  raw.Name,
			Extra: extra,
		},
		Posts: []models.Post{},
		Onchain: &models.OnchainMetrics{
			DailyFees:          dailyFees,
			PreviousDayFees:    previousDayFees,
			DailyChangePercent: round2(Growth(dailyFees, previousDayFees)),
			WeeklyFees:         weeklyFees,
			TotalAllTime:       totalAllTime,
			Transactions:       transactions,
			UniqueAddresses:    uniqueAddresses,
			AvgTxValue:         avgTxValue,
			DailyFeeHistory:    feeHistory,
		},
	}
}

// feeHistoryFromChart converts chart rows to fee points, keeping the most
// recent max entries. Malformed rows are skipped.
func feeHistoryFromChart(chart [][]float64, max int) []models.FeePoint {
	if len(chart) > max {
		chart = chart[len(chart)-max:]
	}
	points := make([]models.FeePoint, 0, len(chart))
	for _, row := range chart {
		if len(row) < 2 {
			continue
		}
		points = append(points, models.FeePoint{
			Date: time.Unix(int64(row[0]), 0).UTC().Format("2006-01-02"),
			Fees: row[1],
		})
	}
	return points
}
