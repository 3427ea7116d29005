package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trading-ops-dashboard/internal/params"
)

var (
	// ErrSessionNotFound is returned for an unknown or already closed
	// session ID.
	ErrSessionNotFound = errors.New("editor session not found")

	// ErrValidationFailed blocks a save whose parameters did not pass
	// validation. The collected messages travel alongside it.
	ErrValidationFailed = errors.New("parameter validation failed")

	// ErrInvalidScope is returned when a refresh names an unknown scope.
	ErrInvalidScope = errors.New("invalid refresh scope")
)

// ParameterSource is the slice of the backend client the editor needs.
type ParameterSource interface {
	GetInstanceParameters(ctx context.Context, instanceID string) (params.RawParams, error)
	SaveInstanceParameters(ctx context.Context, instanceID string, flat map[string]interface{}) error
	SaveProfileConfig(ctx context.Context, platform, account string, flat map[string]interface{}) error
}

// ParameterCache keeps the last parameters the backend was known to hold, so
// opening an editor still works when the backend is briefly unreachable.
type ParameterCache interface {
	GetInstanceParameters(ctx context.Context, instanceID string) (params.RawParams, bool)
	SetInstanceParameters(ctx context.Context, instanceID string, raw params.RawParams)
}

// Manager owns all open editor sessions. Sessions are in-memory only;
// closing one discards every unsaved edit.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	source ParameterSource
	cache  ParameterCache // may be nil
	logger zerolog.Logger
}

// NewManager wires the editor against a backend client and an optional
// parameter cache.
func NewManager(source ParameterSource, cache ParameterCache, logger zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		source:   source,
		cache:    cache,
		logger:   logger,
	}
}

// Open starts an editing session for an instance. The backend is asked for
// the current parameters; if it is unreachable the last cached payload is
// used, and failing that the built-in defaults. Open never fails to produce
// an editable object.
func (m *Manager) Open(ctx context.Context, instanceID, platform, account string) (View, error) {
	raw, err := m.source.GetInstanceParameters(ctx, instanceID)
	if err != nil {
		m.logger.Warn().Err(err).Str("instance_id", instanceID).
			Msg("backend fetch failed, falling back to cached parameters")
		if m.cache != nil {
			if cached, ok := m.cache.GetInstanceParameters(ctx, instanceID); ok {
				raw = cached
			}
		}
	} else if m.cache != nil && raw != nil {
		m.cache.SetInstanceParameters(ctx, instanceID, raw)
	}

	now := time.Now()
	s := &Session{
		ID:         uuid.New().String(),
		InstanceID: instanceID,
		Platform:   platform,
		Account:    account,
		Params:     params.Materialize(raw),
		OpenedAt:   now,
		UpdatedAt:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info().Str("session_id", s.ID).Str("instance_id", instanceID).
		Msg("editor session opened")
	return s.view(), nil
}

// Get returns a snapshot of a session.
func (m *Manager) Get(sessionID string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return View{}, ErrSessionNotFound
	}
	return s.view(), nil
}

// Update replaces the editable parameters with the operator's edits. The
// auto-trade flag is carried over from the session, never from the request:
// only the confirm flow may raise it, and a plain update must not lower or
// raise it silently. A request that omits the advanced block keeps the
// session's advanced block, so partial payloads cannot null it out.
func (m *Manager) Update(sessionID string, p params.InstanceParameters) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return View{}, ErrSessionNotFound
	}
	p.AutoTrade = s.Params.AutoTrade
	if p.Advanced == nil {
		p.Advanced = s.Params.Advanced
	}
	s.Params = p.Clone()
	s.UpdatedAt = time.Now()
	return s.view(), nil
}

// RequestTemplate records intent to apply a preset and returns it so the
// caller can show its description. Nothing mutates yet.
func (m *Manager) RequestTemplate(sessionID, templateID string) (params.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return params.Template{}, ErrSessionNotFound
	}
	return s.templates.Request(templateID)
}

// ConfirmTemplate applies the pending preset to the session parameters.
func (m *Manager) ConfirmTemplate(sessionID string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return View{}, ErrSessionNotFound
	}
	if err := s.templates.Confirm(&s.Params); err != nil {
		return View{}, err
	}
	s.UpdatedAt = time.Now()
	return s.view(), nil
}

// CancelTemplate discards the pending preset without mutation.
func (m *Manager) CancelTemplate(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.templates.Cancel()
	return nil
}

// Refresh re-reads the backend and reconciles the named scope into the
// session. A transport error leaves the local copy untouched and is
// returned to the caller.
func (m *Manager) Refresh(ctx context.Context, sessionID string, scope params.Scope) (View, error) {
	if !scope.Valid() {
		return View{}, ErrInvalidScope
	}

	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return View{}, ErrSessionNotFound
	}
	instanceID := s.InstanceID
	m.mu.Unlock()

	remote, err := m.source.GetInstanceParameters(ctx, instanceID)
	if err != nil {
		return View{}, err
	}
	if m.cache != nil && remote != nil {
		m.cache.SetInstanceParameters(ctx, instanceID, remote)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok = m.sessions[sessionID]
	if !ok {
		return View{}, ErrSessionNotFound
	}
	s.Params = params.Reconcile(s.Params, remote, scope)
	s.UpdatedAt = time.Now()
	return s.view(), nil
}

// RequestAutoTrade records intent to enable live trading and returns the
// warning text the operator must acknowledge.
func (m *Manager) RequestAutoTrade(sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	return s.autoTrade.RequestEnable()
}

// ConfirmAutoTrade flips the flag on. This is the only manager operation
// that can set AutoTrade to true.
func (m *Manager) ConfirmAutoTrade(sessionID string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return View{}, ErrSessionNotFound
	}
	if err := s.autoTrade.ConfirmEnable(&s.Params); err != nil {
		return View{}, err
	}
	s.UpdatedAt = time.Now()
	m.logger.Info().Str("session_id", sessionID).Str("instance_id", s.InstanceID).
		Msg("auto-trade enabled")
	return s.view(), nil
}

// DisableAutoTrade turns the flag off immediately.
func (m *Manager) DisableAutoTrade(sessionID string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return View{}, ErrSessionNotFound
	}
	s.autoTrade.Disable(&s.Params)
	s.UpdatedAt = time.Now()
	return s.view(), nil
}

// Save validates the session parameters and, if clean, writes the flattened
// body to the running instance. When persistProfile is set and the session
// knows its platform and account, the same body is written to the account
// profile so it survives restarts. A save failure keeps the session open
// with its edits intact.
func (m *Manager) Save(ctx context.Context, sessionID string, persistProfile bool) (params.Result, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return params.Result{}, ErrSessionNotFound
	}
	snapshot := s.Params.Clone()
	instanceID, platform, account := s.InstanceID, s.Platform, s.Account
	m.mu.Unlock()

	result := params.Validate(snapshot)
	if !result.IsValid {
		return result, ErrValidationFailed
	}

	flat := params.Flatten(snapshot)
	if err := m.source.SaveInstanceParameters(ctx, instanceID, flat); err != nil {
		return result, err
	}
	if persistProfile && platform != "" && account != "" {
		if err := m.source.SaveProfileConfig(ctx, platform, account, flat); err != nil {
			m.logger.Error().Err(err).Str("platform", platform).Str("account", account).
				Msg("profile persistence failed after instance save")
			return result, err
		}
	}
	if m.cache != nil {
		m.cache.SetInstanceParameters(ctx, instanceID, params.RawParams(flat))
	}

	m.logger.Info().Str("session_id", sessionID).Str("instance_id", instanceID).
		Bool("profile_persisted", persistProfile).Msg("parameters saved")
	return result, nil
}

// Close discards the session and all unsaved edits.
func (m *Manager) Close(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}
