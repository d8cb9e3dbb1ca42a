// Package ghost issues the anonymous identifiers devices use instead of accounts.
package ghost

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/repcheck/internal/telemetry/metrics"
	"github.com/2beens/repcheck/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	knownCacheSize   = 5 * 1024 * 1024
	knownCacheExpire = 60 * 60 // seconds
)

var ErrInvalidID = errors.New("invalid ghost id")

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=ghost_test

type registry interface {
	Add(ctx context.Context, ghostID string) error
	Contains(ctx context.Context, ghostID string) (bool, error)
}

type Service struct {
	registry       registry
	knownCache     *freecache.Cache
	metricsManager *metrics.Manager
	// ability to inject the id generator (for unit and dev testing)
	NewIDFunc func() string
}

func NewService(registry registry, metricsManager *metrics.Manager) *Service {
	return &Service{
		registry:       registry,
		knownCache:     freecache.NewCache(knownCacheSize),
		metricsManager: metricsManager,
		NewIDFunc:      uuid.NewString,
	}
}

func (s *Service) Register(ctx context.Context) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ghost.service.register")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	ghostID := s.NewIDFunc()
	if err := s.registry.Add(ctx, ghostID); err != nil {
		return "", fmt.Errorf("register ghost: %w", err)
	}

	s.remember(ghostID)
	s.metricsManager.CounterGhostsRegistered.Inc()
	span.SetAttributes(attribute.String("ghost", ghostID))
	log.Debugf("ghost registered: %s", ghostID)

	return ghostID, nil
}

// IsKnown tells if the id was issued by Register. Only positive answers are
// cached, so a freshly registered ghost on another instance is found too.
func (s *Service) IsKnown(ctx context.Context, ghostID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ghost.service.isKnown")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if _, err := uuid.Parse(ghostID); err != nil {
		return false, ErrInvalidID
	}

	if _, err := s.knownCache.Get([]byte(ghostID)); err == nil {
		return true, nil
	}

	known, err := s.registry.Contains(ctx, ghostID)
	if err != nil {
		return false, err
	}
	if known {
		s.remember(ghostID)
	}
	return known, nil
}

func (s *Service) remember(ghostID string) {
	if err := s.knownCache.Set([]byte(ghostID), []byte{1}, knownCacheExpire); err != nil {
		log.Errorf("failed to cache known ghost %s: %s", ghostID, err)
	}
}
