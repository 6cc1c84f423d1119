package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	apperrors "brotos/internal/errors"
	"brotos/internal/hierarchy"
	"brotos/internal/model"
	"brotos/internal/repository"
)

// Defaults for the bootstrap admin record.
const (
	bootstrapName     = "Administrador Geral"
	bootstrapWhatsApp = "71999999999"
	bootstrapEmail    = "admin@brotosdaterra.com.br"
	bootstrapCity     = "Santa Inês"
	bootstrapState    = "MA"
	bootstrapTeam     = "Diretoria"
)

// SessionSyncer keeps persisted sessions in line with the records they cache.
type SessionSyncer interface {
	Sync(ctx context.Context, consultant *model.Consultant) error
	RevokeAll(ctx context.Context, consultantID string) error
}

// ImportResult summarises a roster import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Detached []string `json:"detached,omitempty"`
	Invalid  []string `json:"invalid,omitempty"`
}

// ConsultantService handles the consultant roster: reads scoped by the actor's role and
// mutations that keep the recruitment tree valid.
type ConsultantService interface {
	ListAll(ctx context.Context) ([]model.Consultant, error)
	FindByID(ctx context.Context, id string) (*model.Consultant, error)
	ListVisible(ctx context.Context, actor *model.Consultant) ([]model.Consultant, error)
	Search(ctx context.Context, actor *model.Consultant, term string) ([]model.Consultant, error)
	ListTeam(ctx context.Context, actor *model.Consultant, term string) ([]model.Consultant, error)
	Get(ctx context.Context, actor *model.Consultant, id string) (*model.Consultant, error)
	Create(ctx context.Context, actor *model.Consultant, fields model.ConsultantFields) (*model.Consultant, error)
	Update(ctx context.Context, actor *model.Consultant, id string, patch model.ConsultantPatch, expectedVersion uint) (*model.Consultant, error)
	Deactivate(ctx context.Context, actor *model.Consultant, id string) (*model.Consultant, error)
	Delete(ctx context.Context, actor *model.Consultant, id string) error
	EnsureBootstrap(ctx context.Context) (*model.Consultant, bool, error)
	Import(ctx context.Context, records []model.Consultant) (*ImportResult, error)
	Export(ctx context.Context, actor *model.Consultant) ([]model.Consultant, error)
}

type consultantService struct {
	repo     repository.ConsultantRepository
	policy   hierarchy.Policy
	ids      *IDGenerator
	sessions SessionSyncer
	log      zerolog.Logger
	now      func() time.Time
}

// NewConsultantService creates a new consultant service.
func NewConsultantService(
	repo repository.ConsultantRepository,
	policy hierarchy.Policy,
	sessions SessionSyncer,
	log zerolog.Logger,
) ConsultantService {
	return &consultantService{
		repo:     repo,
		policy:   policy,
		ids:      NewIDGenerator(policy.BootstrapID),
		sessions: sessions,
		log:      log.With().Str("component", "consultants").Logger(),
		now:      time.Now,
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrConsultantNotFound
	}
	return err
}

func parentLookup(repo repository.ConsultantRepository) hierarchy.ParentLookup {
	return func(ctx context.Context, id string) (string, bool, error) {
		c, err := repo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return c.ParentIDValue(), true, nil
	}
}

// ListAll returns every record in insertion order.
func (s *consultantService) ListAll(ctx context.Context) ([]model.Consultant, error) {
	return s.repo.List(ctx)
}

// FindByID returns the record or ErrConsultantNotFound.
func (s *consultantService) FindByID(ctx context.Context, id string) (*model.Consultant, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// ListVisible returns what actor may see.
func (s *consultantService) ListVisible(ctx context.Context, actor *model.Consultant) ([]model.Consultant, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list consultants: %w", err)
	}
	return s.policy.VisibleSet(actor, all), nil
}

// Search narrows the visible set to records whose name, city or email contains term.
func (s *consultantService) Search(ctx context.Context, actor *model.Consultant, term string) ([]model.Consultant, error) {
	visible, err := s.ListVisible(ctx, actor)
	if err != nil {
		return nil, err
	}
	return filterByTerm(visible, term), nil
}

// ListTeam returns the actor's direct recruits regardless of role.
func (s *consultantService) ListTeam(ctx context.Context, actor *model.Consultant, term string) ([]model.Consultant, error) {
	if actor == nil {
		return []model.Consultant{}, nil
	}
	team, err := s.repo.ListByParent(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list team of %s: %w", actor.ID, err)
	}
	return filterByTerm(team, term), nil
}

func filterByTerm(records []model.Consultant, term string) []model.Consultant {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	out := make([]model.Consultant, 0, len(records))
	for _, c := range records {
		if strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.City), term) ||
			strings.Contains(strings.ToLower(c.Email), term) {
			out = append(out, c)
		}
	}
	return out
}

// Get returns one record if actor may see it. Records outside the visible scope are reported
// as not found.
func (s *consultantService) Get(ctx context.Context, actor *model.Consultant, id string) (*model.Consultant, error) {
	c, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanView(actor, c) {
		return nil, apperrors.ErrConsultantNotFound
	}
	return c, nil
}

// Create validates, authorizes and stores a new record with a freshly drawn id.
func (s *consultantService) Create(ctx context.Context, actor *model.Consultant, fields model.ConsultantFields) (*model.Consultant, error) {
	trimFields(&fields)
	if err := validateStruct(fields); err != nil {
		return nil, err
	}
	if fields.Role == "" {
		fields.Role = model.RoleConsultant
	}
	if err := s.policy.CheckCreate(actor, fields); err != nil {
		return nil, err
	}
	if fields.TeamName == "" && fields.ParentID != "" && fields.ParentID == actor.ID {
		fields.TeamName = "Equipe de " + actor.Name
	}

	var created *model.Consultant
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, consultants repository.ConsultantRepository, outbox repository.OutboxRepository) error {
		if fields.ParentID != "" {
			exists, err := consultants.ExistsByID(ctx, fields.ParentID)
			if err != nil {
				return fmt.Errorf("check recruiter: %w", err)
			}
			if !exists {
				return apperrors.NewValidationError("parentId", "recruiter does not exist")
			}
		}

		id, err := s.ids.Next(ctx, consultants.ExistsByID)
		if err != nil {
			return err
		}

		c := &model.Consultant{
			ID:        id,
			Name:      fields.Name,
			Role:      fields.Role,
			WhatsApp:  fields.WhatsApp,
			Email:     fields.Email,
			City:      fields.City,
			State:     fields.State,
			Status:    model.StatusActive,
			PhotoURL:  fields.PhotoURL,
			TeamName:  fields.TeamName,
			ParentID:  model.StringPtr(fields.ParentID),
			CreatedAt: s.now(),
		}
		if err := consultants.Create(ctx, c); err != nil {
			return fmt.Errorf("create consultant: %w", err)
		}
		if err := s.record(ctx, outbox, model.EventConsultantCreated, actor, c); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("actor_id", actor.ID).Str("consultant_id", created.ID).Str("role", string(created.Role)).Msg("consultant created")
	return created, nil
}

// Update merges patch onto the record if the caller saw the current version. expectedVersion 0
// skips the version check.
func (s *consultantService) Update(ctx context.Context, actor *model.Consultant, id string, patch model.ConsultantPatch, expectedVersion uint) (*model.Consultant, error) {
	trimPatch(&patch)
	if err := validateStruct(patch); err != nil {
		return nil, err
	}

	var updated *model.Consultant
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, consultants repository.ConsultantRepository, outbox repository.OutboxRepository) error {
		target, err := consultants.FindByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if expectedVersion != 0 && target.Version != expectedVersion {
			return apperrors.ErrVersionConflict
		}
		if err := s.policy.CheckUpdate(actor, target, patch); err != nil {
			return err
		}

		if patch.Role != nil && target.Role == model.RoleAdmin && *patch.Role != model.RoleAdmin {
			admins, err := consultants.CountByRole(ctx, model.RoleAdmin)
			if err != nil {
				return fmt.Errorf("count admins: %w", err)
			}
			if admins <= 1 {
				return apperrors.ErrLastAdmin
			}
		}
		if patch.ParentID != nil && *patch.ParentID != target.ParentIDValue() {
			if err := hierarchy.CheckParent(ctx, parentLookup(consultants), target.ID, *patch.ParentID); err != nil {
				return err
			}
		}

		version := target.Version
		patch.Apply(target)
		if err := consultants.Update(ctx, target, version); err != nil {
			if errors.Is(err, repository.ErrStaleVersion) {
				return apperrors.ErrVersionConflict
			}
			return fmt.Errorf("update consultant: %w", err)
		}
		if err := s.record(ctx, outbox, model.EventConsultantUpdated, actor, target); err != nil {
			return err
		}
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.syncSessions(ctx, updated)
	s.log.Info().Str("actor_id", actor.ID).Str("consultant_id", updated.ID).Uint("version", updated.Version).Msg("consultant updated")
	return updated, nil
}

// Deactivate is the soft delete: the record stays in the tree but can no longer log in.
func (s *consultantService) Deactivate(ctx context.Context, actor *model.Consultant, id string) (*model.Consultant, error) {
	var target *model.Consultant
	changed := false
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, consultants repository.ConsultantRepository, outbox repository.OutboxRepository) error {
		var err error
		target, err = consultants.FindByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		admins, err := consultants.CountByRole(ctx, model.RoleAdmin)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if err := s.policy.CheckDelete(actor, target, admins); err != nil {
			return err
		}
		if !target.IsActive() {
			return nil
		}

		target.Status = model.StatusInactive
		if err := consultants.Update(ctx, target, target.Version); err != nil {
			if errors.Is(err, repository.ErrStaleVersion) {
				return apperrors.ErrVersionConflict
			}
			return fmt.Errorf("deactivate consultant: %w", err)
		}
		changed = true
		return s.record(ctx, outbox, model.EventConsultantDeactivated, actor, target)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.syncSessions(ctx, target)
		s.log.Info().Str("actor_id", actor.ID).Str("consultant_id", target.ID).Msg("consultant deactivated")
	}
	return target, nil
}

// Delete purges a record. Its direct recruits move up to its own recruiter, or become roots.
func (s *consultantService) Delete(ctx context.Context, actor *model.Consultant, id string) error {
	var moved int64
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, consultants repository.ConsultantRepository, outbox repository.OutboxRepository) error {
		target, err := consultants.FindByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		admins, err := consultants.CountByRole(ctx, model.RoleAdmin)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if err := s.policy.CheckDelete(actor, target, admins); err != nil {
			return err
		}

		moved, err = consultants.ReparentChildren(ctx, target.ID, target.ParentID)
		if err != nil {
			return fmt.Errorf("reparent recruits of %s: %w", target.ID, err)
		}
		if err := consultants.Delete(ctx, target.ID); err != nil {
			return notFound(err)
		}
		return s.record(ctx, outbox, model.EventConsultantDeleted, actor, target)
	})
	if err != nil {
		return err
	}

	if s.sessions != nil {
		if err := s.sessions.RevokeAll(ctx, id); err != nil {
			s.log.Error().Err(err).Str("consultant_id", id).Msg("revoke sessions after delete")
		}
	}
	s.log.Info().Str("actor_id", actor.ID).Str("consultant_id", id).Int64("reparented", moved).Msg("consultant deleted")
	return nil
}

// EnsureBootstrap creates the reserved admin if it is missing. The bool reports creation.
func (s *consultantService) EnsureBootstrap(ctx context.Context) (*model.Consultant, bool, error) {
	existing, err := s.repo.FindByID(ctx, s.policy.BootstrapID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find bootstrap admin: %w", err)
	}

	admin := &model.Consultant{
		ID:        s.policy.BootstrapID,
		Name:      bootstrapName,
		Role:      model.RoleAdmin,
		WhatsApp:  bootstrapWhatsApp,
		Email:     bootstrapEmail,
		City:      bootstrapCity,
		State:     bootstrapState,
		Status:    model.StatusActive,
		TeamName:  bootstrapTeam,
		CreatedAt: s.now(),
	}
	err = s.repo.WithTransaction(ctx, func(ctx context.Context, consultants repository.ConsultantRepository, outbox repository.OutboxRepository) error {
		if err := consultants.Create(ctx, admin); err != nil {
			return fmt.Errorf("create bootstrap admin: %w", err)
		}
		return s.record(ctx, outbox, model.EventConsultantCreated, nil, admin)
	})
	if err != nil {
		return nil, false, err
	}

	s.log.Info().Str("consultant_id", admin.ID).Msg("bootstrap admin created")
	return admin, true, nil
}

// Import loads exported records, keeping their ids and creation times. Ids already present are
// skipped, and records failing profile validation are reported in Invalid. Records whose recruiter is unknown, or whose recruiter chain would loop, are stored
// as roots.
func (s *consultantService) Import(ctx context.Context, records []model.Consultant) (*ImportResult, error) {
	result := &ImportResult{}
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, consultants repository.ConsultantRepository, outbox repository.OutboxRepository) error {
		existing, err := consultants.List(ctx)
		if err != nil {
			return fmt.Errorf("list consultants: %w", err)
		}
		known := make(map[string]bool, len(existing)+len(records))
		for _, c := range existing {
			known[c.ID] = true
		}

		pending := make([]model.Consultant, 0, len(records))
		for _, rec := range records {
			rec.ID = strings.TrimSpace(rec.ID)
			if rec.ID == "" || known[rec.ID] {
				result.Skipped++
				continue
			}
			if !rec.Role.Valid() {
				rec.Role = model.RoleConsultant
			}
			if !rec.Status.Valid() {
				rec.Status = model.StatusActive
			}
			if err := normalizeImported(&rec); err != nil {
				s.log.Warn().Err(err).Str("consultant_id", rec.ID).Msg("skipping invalid imported record")
				result.Invalid = append(result.Invalid, rec.ID)
				continue
			}
			if rec.CreatedAt.IsZero() {
				rec.CreatedAt = s.now()
			}
			rec.Seq = 0
			rec.Version = 1
			known[rec.ID] = true
			pending = append(pending, rec)
		}

		roster := append(append([]model.Consultant{}, existing...), pending...)
		for i := range pending {
			rec := &pending[i]
			if !rec.HasParent() {
				continue
			}
			if !known[*rec.ParentID] || rec.ParentIDValue() == rec.ID {
				rec.ParentID = nil
			} else if _, acyclic := hierarchy.Depth(roster, rec.ID); !acyclic {
				rec.ParentID = nil
			} else {
				continue
			}
			result.Detached = append(result.Detached, rec.ID)
			roster = replaceParent(roster, rec.ID, nil)
		}

		for i := range pending {
			rec := &pending[i]
			if err := consultants.Create(ctx, rec); err != nil {
				return fmt.Errorf("import %s: %w", rec.ID, err)
			}
			if err := s.record(ctx, outbox, model.EventConsultantCreated, nil, rec); err != nil {
				return err
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Strs("detached", result.Detached).Strs("invalid", result.Invalid).Msg("roster imported")
	return result, nil
}

func replaceParent(roster []model.Consultant, id string, parentID *string) []model.Consultant {
	for i := range roster {
		if roster[i].ID == id {
			roster[i].ParentID = parentID
		}
	}
	return roster
}

// Export returns the whole roster for admins.
func (s *consultantService) Export(ctx context.Context, actor *model.Consultant) ([]model.Consultant, error) {
	if actor == nil || actor.Role != model.RoleAdmin {
		return nil, fmt.Errorf("export: %w", apperrors.ErrForbidden)
	}
	return s.repo.List(ctx)
}

func (s *consultantService) record(ctx context.Context, outbox repository.OutboxRepository, typ model.EventType, actor, c *model.Consultant) error {
	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}
	event, err := model.NewOutboxEvent(typ, actorID, c)
	if err != nil {
		return fmt.Errorf("build %s event: %w", typ, err)
	}
	if err := outbox.Create(ctx, event); err != nil {
		return fmt.Errorf("store %s event: %w", typ, err)
	}
	return nil
}

func (s *consultantService) syncSessions(ctx context.Context, c *model.Consultant) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Sync(ctx, c); err != nil {
		s.log.Error().Err(err).Str("consultant_id", c.ID).Msg("refresh cached sessions")
	}
}
