// Package google provides shared infrastructure for the YouTube and Sheets
// connectors:
//   - TokenSource construction from a stored OAuth refresh token
//   - Service factories for creating Google API clients
//   - Error wrapping that maps Google API failures onto the domain sentinels
//     the sync engine classifies on (quota, auth, rate limit)
//   - Rate limiting to stay clear of per-minute request throttling
//
// # Usage
//
// Each connector (youtube, sheets) uses this package to create authenticated
// API clients:
//
//	ts := google.NewTokenSource(ctx, cfg)
//	svc, err := google.NewYouTubeService(ctx, ts)
//
// # OAuth2 Scopes
//
// The connectors use these scopes:
//   - https://www.googleapis.com/auth/youtube (sensitive)
//   - https://www.googleapis.com/auth/spreadsheets (sensitive)
//
// # Quota
//
// The YouTube Data API grants 10,000 quota units per project per day.
// A subscriptions.list page costs 1 unit; a subscriptions.insert costs 50.
// Exhaustion surfaces as HTTP 403 with reason "quotaExceeded" or
// "dailyLimitExceeded", which WrapError maps to domain.ErrQuotaExhausted.
// A plain 403 without those reasons is a permission failure on the single
// resource, not account-wide exhaustion.
package google
