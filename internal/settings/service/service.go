// Package service holds the phone validation settings business logic.
package service

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"checkout_phone_backend/internal/events"
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/internal/settings/repository"
	"checkout_phone_backend/internal/settings/transport"
	"checkout_phone_backend/platform/apperr"
	"checkout_phone_backend/platform/config"
	"checkout_phone_backend/platform/logger"
	"checkout_phone_backend/platform/metrics"
	"checkout_phone_backend/platform/phone"
)

// Policy snapshot sources reported to clients and metrics.
const (
	SourceCache    = "cache"
	SourceDatabase = "database"
	SourceDefault  = "default"
)

// Cache is the short-lived policy store in front of the repository.
type Cache interface {
	Get(ctx context.Context) (policy.Policy, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, p policy.Policy, generation int64) error
	Invalidate(ctx context.Context) error
}

// RegionCatalog lists the regions the numbering plan knows about.
type RegionCatalog interface {
	SupportedRegions() []string
	CountryCodeForRegion(region string) int
}

// Service reads and updates the phone validation policy.
type Service struct {
	repo     repository.Repository
	cache    Cache
	regions  RegionCatalog
	defaults policy.Policy
	bus      events.Bus
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// New creates a settings service. cache and m may be nil.
func New(repo repository.Repository, cache Cache, regions RegionCatalog, defaults policy.Policy, bus events.Bus, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		regions:  regions,
		defaults: defaults.Normalized(),
		bus:      bus,
		log:      log,
		metrics:  m,
	}
}

// PolicyFromConfig builds the fallback policy from environment configuration.
func PolicyFromConfig(cfg config.PhonePolicyConfig) policy.Policy {
	return policy.Policy{
		Enabled:       cfg.GetPhoneValidationEnabled(),
		DefaultRegion: cfg.GetPhoneDefaultCountry(),
		Mode:          policy.Mode(cfg.GetPhoneValidationMode()),
		OutputFormat:  phone.Style(cfg.GetPhoneOutputFormat()),
		FormatOnSave:  cfg.GetPhoneFormatOnSave(),
	}.Normalized()
}

// Current returns the policy checkout should apply right now. Storage failures
// are logged and degrade to the configured defaults so checkout keeps working.
func (s *Service) Current(ctx context.Context) policy.Policy {
	p, _ := s.current(ctx)
	return p
}

func (s *Service) current(ctx context.Context) (policy.Policy, string) {
	log := s.log.WithContext(ctx)

	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx)
		if err != nil {
			log.Warn("phone settings cache read failed", "error", err)
		} else if ok {
			s.metrics.IncrementSettingsSource(SourceCache)
			return p, SourceCache
		}
	}

	// The generation is taken before the database read so an Update landing
	// in between makes the write-back below a no-op.
	generation, genErr := int64(0), error(nil)
	if s.cache != nil {
		generation, genErr = s.cache.Generation(ctx)
		if genErr != nil {
			log.Warn("phone settings cache generation read failed", "error", genErr)
		}
	}

	stored, err := s.repo.Get(ctx)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			log.DatabaseError("get phone validation settings", err)
		}
		s.metrics.IncrementSettingsSource(SourceDefault)
		return s.defaults, SourceDefault
	}

	p := policyFromSettings(stored)
	if s.cache != nil && genErr == nil {
		if err := s.cache.Set(ctx, p, generation); err != nil {
			log.Warn("phone settings cache write failed", "error", err)
		}
	}
	s.metrics.IncrementSettingsSource(SourceDatabase)
	return p, SourceDatabase
}

// Get returns the stored settings for the admin view, or the defaults when
// nothing has been saved yet.
func (s *Service) Get(ctx context.Context) (transport.SettingsResponse, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return toResponse(s.defaults, SourceDefault, nil), nil
		}
		return transport.SettingsResponse{}, apperr.Unavailable("phone validation settings are unavailable", err).WithOp("settings.Get")
	}
	return toResponse(policyFromSettings(stored), SourceDatabase, &stored), nil
}

// Update validates and saves a new policy, drops the cached copy and publishes
// PhoneSettingsUpdated with the previous and current snapshots.
func (s *Service) Update(ctx context.Context, actor string, req transport.UpdateSettingsRequest) (transport.SettingsResponse, error) {
	next, err := policyFromRequest(req)
	if err != nil {
		return transport.SettingsResponse{}, err
	}

	previous, _ := s.current(ctx)

	stored, err := s.repo.Upsert(ctx, repository.UpsertParams{
		Enabled:        next.Enabled,
		DefaultCountry: next.DefaultRegion,
		ValidationMode: string(next.Mode),
		OutputFormat:   string(next.OutputFormat),
		FormatOnSave:   next.FormatOnSave,
		UpdatedBy:      actor,
	})
	if err != nil {
		return transport.SettingsResponse{}, apperr.Unavailable("could not save phone validation settings", err).WithOp("settings.Update")
	}

	log := s.log.WithContext(ctx)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn("phone settings cache invalidation failed", "error", err)
		}
	}

	current := policyFromSettings(stored)
	log.SettingsChanged(actor, current.Enabled, current.DefaultRegion, string(current.Mode), string(current.OutputFormat))

	if s.bus != nil {
		s.bus.Publish(ctx, events.PhoneSettingsUpdated{
			BaseEvent: events.NewBaseEvent(),
			Actor:     actor,
			Previous:  previous,
			Current:   current,
		})
	}

	return toResponse(current, SourceDatabase, &stored), nil
}

// SupportedCountries lists every region with its calling code and a display
// name in the requested locale, sorted by that name.
func (s *Service) SupportedCountries(locale string) transport.CountryListResponse {
	tag := language.English
	if parsed, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		tag = parsed
	}
	namer := display.Regions(tag)
	if namer == nil {
		tag = language.English
		namer = display.Regions(tag)
	}

	codes := s.regions.SupportedRegions()
	items := make([]transport.CountryOption, 0, len(codes))
	for _, code := range codes {
		name := code
		if region, err := language.ParseRegion(code); err == nil {
			if n := namer.Name(region); n != "" {
				name = n
			}
		}
		items = append(items, transport.CountryOption{
			Code:        code,
			Name:        name,
			CallingCode: s.regions.CountryCodeForRegion(code),
		})
	}

	col := collate.New(tag)
	slices.SortStableFunc(items, func(a, b transport.CountryOption) int {
		return col.CompareString(a.Name, b.Name)
	})

	return transport.CountryListResponse{Locale: tag.String(), Items: items}
}

func policyFromRequest(req transport.UpdateSettingsRequest) (policy.Policy, error) {
	mode, err := policy.ParseMode(req.ValidationMode)
	if err != nil {
		return policy.Policy{}, apperr.Validation(err.Error()).WithCode("invalid_validation_mode")
	}

	style := phone.Style(strings.ToUpper(strings.TrimSpace(req.OutputFormat)))
	if !style.IsKnown() {
		return policy.Policy{}, apperr.Validation("outputFormat must be one of E164, INTERNATIONAL, NATIONAL").WithCode("invalid_output_format")
	}

	p := policy.Policy{
		Enabled:       req.Enabled != nil && *req.Enabled,
		DefaultRegion: phone.NormalizeRegion(req.DefaultCountry),
		Mode:          mode,
		OutputFormat:  style,
		FormatOnSave:  req.FormatOnSave != nil && *req.FormatOnSave,
	}
	if err := p.Validate(); err != nil {
		return policy.Policy{}, apperr.Validation(err.Error()).WithCode("invalid_default_country")
	}
	return p, nil
}

func policyFromSettings(s repository.Settings) policy.Policy {
	return policy.Policy{
		Enabled:       s.Enabled,
		DefaultRegion: s.DefaultCountry,
		Mode:          policy.Mode(s.ValidationMode),
		OutputFormat:  phone.Style(s.OutputFormat),
		FormatOnSave:  s.FormatOnSave,
	}.Normalized()
}

func toResponse(p policy.Policy, source string, stored *repository.Settings) transport.SettingsResponse {
	resp := transport.SettingsResponse{
		Enabled:        p.Enabled,
		DefaultCountry: p.DefaultRegion,
		ValidationMode: string(p.Mode),
		OutputFormat:   string(p.OutputFormat),
		FormatOnSave:   p.FormatOnSave,
		Source:         source,
	}
	if stored != nil {
		resp.UpdatedBy = stored.UpdatedBy
		updatedAt := stored.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
