package designsessions

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/designstudio-backend/internal/wizard"
	"github.com/angelmondragon/designstudio-backend/pkg/auth"
	"github.com/angelmondragon/designstudio-backend/pkg/config"
	"github.com/angelmondragon/designstudio-backend/pkg/db"
	"github.com/angelmondragon/designstudio-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
	"github.com/angelmondragon/designstudio-backend/pkg/types"
)

// ControllerFactory builds a fresh wizard controller for a session id.
type ControllerFactory func(sessionID string) (*wizard.Controller, error)

type ServiceParams struct {
	Repo      *Repository
	Factory   ControllerFactory
	Session   config.SessionConfig
	Logger    *logger.Logger
	IdleEvict time.Duration
}

// Created is returned once when a session starts.
type Created struct {
	SessionID uuid.UUID       `json:"sessionId"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Snapshot  wizard.Snapshot `json:"snapshot"`
}

type entry struct {
	ctrl     *wizard.Controller
	lastUsed time.Time
}

// Service owns one wizard controller per live session. Controllers idle past
// IdleEvict are dropped from memory and restored from the database on the
// next request.
type Service struct {
	repo    *Repository
	factory ControllerFactory
	session config.SessionConfig
	logg    *logger.Logger
	idle    time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

func NewService(p ServiceParams) (*Service, error) {
	if p.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "design session repo is required")
	}
	if p.Factory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "controller factory is required")
	}
	if p.Session.TTL() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session ttl must be positive")
	}
	idle := p.IdleEvict
	if idle <= 0 {
		idle = p.Session.IdleEvict
	}
	return &Service{
		repo:    p.Repo,
		factory: p.Factory,
		session: p.Session,
		logg:    p.Logger,
		idle:    idle,
		now:     time.Now,
		entries: map[uuid.UUID]*entry{},
	}, nil
}

// Create starts a session at initialURL, persists it and mints its token.
func (s *Service) Create(ctx context.Context, initialURL string) (*Created, error) {
	id := uuid.New()
	ctrl, err := s.factory(id.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build wizard controller")
	}
	snap := ctrl.Open(ctx, initialURL)

	now := s.now()
	state, err := types.NewJSONDocument(ctrl.State())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode wizard state")
	}
	row := &models.DesignSession{
		ID:         id,
		Step:       int(snap.Step),
		CurrentURL: snap.URL,
		State:      state,
		ExpiresAt:  now.Add(s.session.TTL()).UTC(),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist design session")
	}

	token, expiresAt, err := auth.MintSessionToken(s.session, now, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	s.mu.Lock()
	s.entries[id] = &entry{ctrl: ctrl, lastUsed: now}
	s.mu.Unlock()

	return &Created{SessionID: id, Token: token, ExpiresAt: expiresAt, Snapshot: snap}, nil
}

// Authenticate resolves a bearer token to its session id.
func (s *Service) Authenticate(token string) (uuid.UUID, error) {
	claims, err := auth.ParseSessionToken(s.session, token)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}
	return claims.SessionID, nil
}

// Controller returns the live controller for id, restoring it when needed.
func (s *Service) Controller(ctx context.Context, id uuid.UUID) (*wizard.Controller, error) {
	now := s.now()
	s.mu.Lock()
	if e, ok := s.entries[id]; ok {
		e.lastUsed = now
		s.mu.Unlock()
		return e.ctrl, nil
	}
	s.mu.Unlock()

	row, err := s.repo.FindActive(ctx, id, now)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load design session")
	}

	ctrl, err := s.factory(id.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build wizard controller")
	}
	var state wizard.State
	if err := row.State.Decode(&state); err != nil {
		s.warn(ctx, id, "stored wizard state unreadable, starting over", err)
		ctrl.Open(ctx, row.CurrentURL)
	} else {
		ctrl.Restore(ctx, state)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		e.lastUsed = now
		return e.ctrl, nil
	}
	s.entries[id] = &entry{ctrl: ctrl, lastUsed: now}
	return ctrl, nil
}

// Do runs fn against the session's controller and persists the resulting
// state. Rejected transitions and no-op calls write nothing, so they do not
// extend the session. Persistence failures are logged; fn's result is
// returned as is.
func (s *Service) Do(ctx context.Context, id uuid.UUID, fn func(*wizard.Controller) (wizard.Snapshot, error)) (wizard.Snapshot, error) {
	ctrl, err := s.Controller(ctx, id)
	if err != nil {
		return wizard.Snapshot{}, err
	}
	before := ctrl.State()
	snap, fnErr := fn(ctrl)
	if pkgerrors.Is(fnErr, pkgerrors.CodeStateConflict) || reflect.DeepEqual(before, ctrl.State()) {
		return snap, fnErr
	}
	if err := s.persist(ctx, id, ctrl); err != nil {
		s.warn(ctx, id, "persist design session failed", err)
	}
	return snap, fnErr
}

func (s *Service) persist(ctx context.Context, id uuid.UUID, ctrl *wizard.Controller) error {
	state := ctrl.State()
	doc, err := types.NewJSONDocument(state)
	if err != nil {
		return err
	}
	return s.repo.SaveState(ctx, id, StateUpdate{
		Step:       int(state.Step),
		CurrentURL: state.URL,
		State:      doc,
		ExpiresAt:  s.now().Add(s.session.TTL()),
	})
}

// RecordCart remembers the Shopify cart created for the session.
func (s *Service) RecordCart(ctx context.Context, id uuid.UUID, cartID string) error {
	if err := s.repo.SetCartID(ctx, id, cartID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "design session not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record cart id")
	}
	return nil
}

// Evict drops controllers idle since before now minus the idle window and
// returns how many were dropped.
func (s *Service) Evict(now time.Time) int {
	if s.idle <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// Live reports how many controllers are in memory.
func (s *Service) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RunSweeper evicts idle controllers every interval until ctx is done.
// Expired rows are purged by the cron worker.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := s.Evict(s.now()); evicted > 0 && s.logg != nil {
				s.logg.Info(s.logg.WithField(ctx, "evicted", evicted), "design session sweep")
			}
		}
	}
}

func (s *Service) warn(ctx context.Context, id uuid.UUID, msg string, err error) {
	if s.logg == nil {
		return
	}
	if id != uuid.Nil {
		ctx = s.logg.WithSessionID(ctx, id.String())
	}
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, msg)
}
