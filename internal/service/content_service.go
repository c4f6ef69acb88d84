package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-api/internal/cache"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/validation"
	"github.com/rs/zerolog"
)

const (
	homeTTL              = time.Hour
	homeTestimonials     = 6
	defaultRating        = 5
	cvDownloadPath       = "/cv/download"
	errContentLookupFmt  = "get %s: %w"
	errContentPersistFmt = "save %s: %w"
)

// contentService is the concrete implementation of ContentService
type contentService struct {
	projects     repository.ProjectRepository
	skills       repository.SkillRepository
	experiences  repository.ExperienceRepository
	testimonials repository.TestimonialRepository
	cvs          repository.CVRepository
	cache        cache.Cache
	activity     ActivityService
	now          func() time.Time
	log          zerolog.Logger
}

func newContentService(repos *repository.Repositories, deps Dependencies, activity ActivityService, log zerolog.Logger) *contentService {
	return &contentService{
		projects:     repos.Project,
		skills:       repos.Skill,
		experiences:  repos.Experience,
		testimonials: repos.Testimonial,
		cvs:          repos.CV,
		cache:        deps.Cache,
		activity:     activity,
		now:          deps.Now,
		log:          log.With().Str("service", "content").Logger(),
	}
}

// Home returns the cached homepage sections
func (s *contentService) Home(ctx context.Context) (*models.Home, error) {
	archived := false
	projects, err := cache.Remember(ctx, s.cache, cache.KeyHomeProjects, homeTTL, func(ctx context.Context) ([]*models.Project, error) {
		return s.projects.List(ctx, &archived)
	})
	if err != nil {
		return nil, fmt.Errorf("home projects: %w", err)
	}
	skills, err := cache.Remember(ctx, s.cache, cache.KeyHomeSkills, homeTTL, s.skills.List)
	if err != nil {
		return nil, fmt.Errorf("home skills: %w", err)
	}
	experiences, err := cache.Remember(ctx, s.cache, cache.KeyHomeExperiences, homeTTL, s.experiences.List)
	if err != nil {
		return nil, fmt.Errorf("home experiences: %w", err)
	}
	testimonials, err := cache.Remember(ctx, s.cache, cache.KeyHomeTestimonials, homeTTL, func(ctx context.Context) ([]*models.Testimonial, error) {
		return s.testimonials.List(ctx, homeTestimonials)
	})
	if err != nil {
		return nil, fmt.Errorf("home testimonials: %w", err)
	}

	home := &models.Home{
		Projects:     projects,
		Skills:       skills,
		Experiences:  experiences,
		Testimonials: testimonials,
	}
	cv, err := s.cvs.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("active cv: %w", err)
	}
	if cv != nil {
		url := cvDownloadPath
		home.CVURL = &url
	}
	return home, nil
}

func (s *contentService) forget(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to forget cache")
	}
}

// changed forgets the homepage cache of a kind and records the change
func (s *contentService) changed(ctx context.Context, key string, kind models.EntityKind, action models.ActivityAction, id string, before, after interface{}) {
	s.forget(ctx, key)
	if kind == models.EntityProject {
		s.forget(ctx, cache.KeySitemap)
	}
	s.activity.Record(ctx, kind, action, id, before, after)
	s.log.Info().Str("entity_kind", string(kind)).Str("entity_id", id).Str("action", string(action)).Msg("Content changed")
}

// Projects

func (s *contentService) ListProjects(ctx context.Context, archived *bool) ([]*models.Project, error) {
	return s.projects.List(ctx, archived)
}

func (s *contentService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if !validation.IsValidUUID(id) {
		return nil, ErrNotFound
	}
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf(errContentLookupFmt, "project", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func applyProjectInput(p *models.Project, in *models.ProjectInput) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = strings.TrimSpace(in.Description)
	p.Image = strings.TrimSpace(in.Image)
	p.Link = strings.TrimSpace(in.Link)
	p.Tags = normalizeTags(in.Tags)
	p.SortOrder = in.SortOrder
	p.IsArchived = in.IsArchived
}

func (s *contentService) CreateProject(ctx context.Context, in *models.ProjectInput) (*models.Project, error) {
	if err := invalid(validation.ValidateProject(in)); err != nil {
		return nil, err
	}
	now := s.now()
	p := &models.Project{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyProjectInput(p, in)
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf(errContentPersistFmt, "project", err)
	}
	s.changed(ctx, cache.KeyHomeProjects, models.EntityProject, models.ActionCreated, p.ID, nil, p)
	return p, nil
}

func (s *contentService) UpdateProject(ctx context.Context, id string, in *models.ProjectInput) (*models.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invalid(validation.ValidateProject(in)); err != nil {
		return nil, err
	}
	before := *p
	applyProjectInput(p, in)
	p.UpdatedAt = s.now()
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf(errContentPersistFmt, "project", err)
	}
	s.changed(ctx, cache.KeyHomeProjects, models.EntityProject, models.ActionUpdated, id, &before, p)
	return p, nil
}

func (s *contentService) DeleteProject(ctx context.Context, id string) error {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.changed(ctx, cache.KeyHomeProjects, models.EntityProject, models.ActionDeleted, id, p, nil)
	return nil
}

// Skills

func (s *contentService) ListSkills(ctx context.Context) ([]*models.Skill, error) {
	return s.skills.List(ctx)
}

func (s *contentService) GetSkill(ctx context.Context, id string) (*models.Skill, error) {
	if !validation.IsValidUUID(id) {
		return nil, ErrNotFound
	}
	sk, err := s.skills.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf(errContentLookupFmt, "skill", err)
	}
	if sk == nil {
		return nil, ErrNotFound
	}
	return sk, nil
}

func applySkillInput(sk *models.Skill, in *models.SkillInput) {
	sk.Name = strings.TrimSpace(in.Name)
	sk.Icon = strings.TrimSpace(in.Icon)
	sk.Items = normalizeTags(in.Items)
	sk.SortOrder = in.SortOrder
}

func (s *contentService) CreateSkill(ctx context.Context, in *models.SkillInput) (*models.Skill, error) {
	if err := invalid(validation.ValidateSkill(in)); err != nil {
		return nil, err
	}
	now := s.now()
	sk := &models.Skill{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applySkillInput(sk, in)
	if err := s.skills.Create(ctx, sk); err != nil {
		return nil, fmt.Errorf(errContentPersistFmt, "skill", err)
	}
	s.changed(ctx, cache.KeyHomeSkills, models.EntitySkill, models.ActionCreated, sk.ID, nil, sk)
	return sk, nil
}

func (s *contentService) UpdateSkill(ctx context.Context, id string, in *models.SkillInput) (*models.Skill, error) {
	sk, err := s.GetSkill(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invalid(validation.ValidateSkill(in)); err != nil {
		return nil, err
	}
	before := *sk
	applySkillInput(sk, in)
	sk.UpdatedAt = s.now()
	if err := s.skills.Update(ctx, sk); err != nil {
		return nil, fmt.Errorf(errContentPersistFmt, "skill", err)
	}
	s.changed(ctx, cache.KeyHomeSkills, models.EntitySkill, models.ActionUpdated, id, &before, sk)
	return sk, nil
}

func (s *contentService) DeleteSkill(ctx context.Context, id string) error {
	sk, err := s.GetSkill(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.skills.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	s.changed(ctx, cache.KeyHomeSkills, models.EntitySkill, models.ActionDeleted, id, sk, nil)
	return nil
}

// Experiences

func (s *contentService) ListExperiences(ctx context.Context) ([]*models.Experience, error) {
	return s.experiences.List(ctx)
}

func (s *contentService) GetExperience(ctx context.Context, id string) (*models.Experience, error) {
	if !validation.IsValidUUID(id) {
		return nil, ErrNotFound
	}
	e, err := s.experiences.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf(errContentLookupFmt, "experience", err)
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

func applyExperienceInput(e *models.Experience, in *models.ExperienceInput) {
	e.Role = strings.TrimSpace(in.Role)
	e.Company = strings.TrimSpace(in.Company)
	e.Period = strings.TrimSpace(in.Period)
	e.Description = strings.TrimSpace(in.Description)
	e.SortOrder = in.SortOrder
}

func (s *contentService) CreateExperience(ctx context.Context, in *models.ExperienceInput) (*models.Experience, error) {
	if err := invalid(validation.ValidateExperience(in)); err != nil {
		return nil, err
	}
	now := s.now()
	e := &models.Experience{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyExperienceInput(e, in)
	if err := s.experiences.Create(ctx, e); err != nil {
		return nil, fmt.Errorf(errContentPersistFmt, "experience", err)
	}
	s.changed(ctx, cache.KeyHomeExperiences, models.EntityExperience, models.ActionCreated, e.ID, nil, e)
	return e, nil
}

func (s *contentService) UpdateExperience(ctx context.Context, id string, in *models.ExperienceInput) (*models.Experience, error) {
	e, err := s.GetExperience(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invalid(validation.ValidateExperience(in)); err != nil {
		return nil, err
	}
	before := *e
	applyExperienceInput(e, in)
	e.UpdatedAt = s.now()
	if err := s.experiences.Update(ctx, e); err != nil {
		return nil, fmt.Errorf(errContentPersistFmt, "experience", err)
	}
	s.changed(ctx, cache.KeyHomeExperiences, models.EntityExperience, models.ActionUpdated, id, &before, e)
	return e, nil
}

func (s *contentService) DeleteExperience(ctx context.Context, id string) error {
	e, err := s.GetExperience(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.experiences.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	s.changed(ctx, cache.KeyHomeExperiences, models.EntityExperience, models.ActionDeleted, id, e, nil)
	return nil
}

// Testimonials

func (s *contentService) ListTestimonials(ctx context.Context) ([]*models.Testimonial, error) {
	return s.testimonials.List(ctx, 0)
}

func (s *contentService) GetTestimonial(ctx context.Context, id string) (*models.Testimonial, error) {
	if !validation.IsValidUUID(id) {
		return nil, ErrNotFound
	}
	t, err := s.testimonials.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf(errContentLookupFmt, "testimonial", err)
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

func applyTestimonialInput(t *models.Testimonial, in *models.TestimonialInput) {
	t.Name = strings.TrimSpace(in.Name)
	t.Role = strings.TrimSpace(in.Role)
	t.Company = strings.TrimSpace(in.Company)
	t.Content = strings.TrimSpace(in.Content)
	t.Avatar = strings.TrimSpace(in.Avatar)
	t.Rating = defaultRating
	if in.Rating != nil {
		t.Rating = *in.Rating
	}
	t.SortOrder = in.SortOrder
}

func (s *contentService) CreateTestimonial(ctx context.Context, in *models.TestimonialInput) (*models.Testimonial, error) {
	if err := invalid(validation.ValidateTestimonial(in)); err != nil {
		return nil, err
	}
	now := s.now()
	t := &models.Testimonial{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyTestimonialInput(t, in)
	if err := s.testimonials.Create(ctx, t); err != nil {
		return nil, fmt.Errorf(errContentPersistFmt, "testimonial", err)
	}
	s.changed(ctx, cache.KeyHomeTestimonials, models.EntityTestimonial, models.ActionCreated, t.ID, nil, t)
	return t, nil
}

func (s *contentService) UpdateTestimonial(ctx context.Context, id string, in *models.TestimonialInput) (*models.Testimonial, error) {
	t, err := s.GetTestimonial(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invalid(validation.ValidateTestimonial(in)); err != nil {
		return nil, err
	}
	before := *t
	applyTestimonialInput(t, in)
	t.UpdatedAt = s.now()
	if err := s.testimonials.Update(ctx, t); err != nil {
		return nil, fmt.Errorf(errContentPersistFmt, "testimonial", err)
	}
	s.changed(ctx, cache.KeyHomeTestimonials, models.EntityTestimonial, models.ActionUpdated, id, &before, t)
	return t, nil
}

func (s *contentService) DeleteTestimonial(ctx context.Context, id string) error {
	t, err := s.GetTestimonial(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.testimonials.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	s.changed(ctx, cache.KeyHomeTestimonials, models.EntityTestimonial, models.ActionDeleted, id, t, nil)
	return nil
}
