// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

//go:generate mockgen -source=token.go -destination=../mock/token_mock.go -package=mock

// TokenProvider returns the current access token.
type TokenProvider interface {
	// Token returns [ErrNoToken] when no token is available.
	Token(ctx context.Context) (string, error)
}

// FileTokenProvider reads the token from a file on every call, so that the
// signed-in application can rotate it without restarting readers.
type FileTokenProvider struct {
	path string
}

// NewFileTokenProvider returns a provider reading path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// Token implements [TokenProvider].
func (p *FileTokenProvider) Token(_ context.Context) (string, error) {
	if p.path == "" {
		return "", ErrNoToken
	}

	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("%w: read token file: %w", ErrNoToken, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// StaticTokenProvider always returns the same token.
type StaticTokenProvider string

// Token implements [TokenProvider].
func (p StaticTokenProvider) Token(_ context.Context) (string, error) {
	token := strings.TrimSpace(string(p))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
