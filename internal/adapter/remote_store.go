// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/codec"
	"github.com/MKhiriev/go-promise-sync/internal/config"
	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/utils"
	"github.com/MKhiriev/go-promise-sync/models"
)

const promisesPath = "/rest/v1/promises"

// RemoteStore fetches the promise list of the token's owner from the
// remote backend.
type RemoteStore struct {
	client *utils.HTTPClient
	apiKey string
	tokens TokenProvider

	logger *logger.Logger
	now    func() time.Time
}

// NewRemoteStore builds a RemoteStore from the adapter configuration.
//
// Returns an error if cfg.URL is empty or cannot be parsed as an absolute
// URL.
func NewRemoteStore(cfg config.RemoteAdapter, tokens TokenProvider, log *logger.Logger) (*RemoteStore, error) {
	baseURL, err := normalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote url: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}

	return &RemoteStore{
		client: utils.NewHTTPClient(baseURL, timeout),
		apiKey: cfg.APIKey,
		tokens: tokens,
		logger: log,
		now:    time.Now,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Name returns the source label used in diagnostics.
func (r *RemoteStore) Name() string {
	return "remote"
}

// FetchPromises returns the owner taken from the access token and the
// owner's promise list. No request is made when the token is missing,
// unparsable or expired.
func (r *RemoteStore) FetchPromises(ctx context.Context) (string, []models.PromiseRecord, error) {
	token, err := r.tokens.Token(ctx)
	if err != nil {
		return "", nil, err
	}

	claims, err := utils.ParseTokenClaims(token)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNoToken, err)
	}
	if claims.Expired(r.now()) {
		return "", nil, fmt.Errorf("%w at %s", ErrTokenExpired, claims.ExpiresAt.UTC().Format(time.RFC3339))
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("apikey", r.apiKey).
		SetQueryParam("owner_id", "eq."+claims.Subject).
		SetQueryParam("select", "*").
		Get(promisesPath)
	if err != nil {
		r.logger.Warn().Err(err).
			Str("func", "RemoteStore.FetchPromises").
			Msg("remote request failed")
		return "", nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		r.logger.Warn().Err(err).
			Str("func", "RemoteStore.FetchPromises").
			Int("status", resp.StatusCode()).
			Msg("remote request rejected")
		return "", nil, err
	}

	promises, err := codec.DecodePromises(resp.Body())
	if err != nil {
		return "", nil, fmt.Errorf("decode remote promises: %w", err)
	}

	r.logger.Debug().
		Str("func", "RemoteStore.FetchPromises").
		Int("promises", len(promises)).
		Msg("remote promises fetched")
	return claims.Subject, promises, nil
}
