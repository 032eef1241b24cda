// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package sweep

import (
	"context"
	"fmt"
)

// Service adapts the Manager's Start/Stop lifecycle to suture's Serve
// pattern: start the manager, block until the context is canceled, then
// stop it.
type Service struct {
	manager *Manager
}

// NewService wraps a sweep manager as a supervised service.
func NewService(manager *Manager) *Service {
	return &Service{manager: manager}
}

// Serve implements suture.Service.
func (s *Service) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("sweep manager start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("sweep manager stop failed: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (s *Service) String() string { return "sweep-manager" }
