package onboarding

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-admin-console/gateway"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/rs/zerolog"
)

var ErrInvalid = errors.New("onboarding form is invalid")

type Onboarder interface {
	Onboard(ctx context.Context, req users.OnboardRequest) (*users.User, error)
}

// ProfileUpdater is the session side of a successful onboarding.
type ProfileUpdater interface {
	ReplaceUser(ctx context.Context, u users.User) error
	RefreshProfile(ctx context.Context) error
}

type Service struct {
	api     Onboarder
	profile ProfileUpdater
	logger  zerolog.Logger
}

func NewService(api Onboarder, profile ProfileUpdater, logger zerolog.Logger) *Service {
	return &Service{api: api, profile: profile, logger: logger}
}

// Submit validates values and posts them. Field errors, local or from a 422, are
// returned alongside ErrInvalid or the gateway error.
func (s *Service) Submit(ctx context.Context, values map[string]string) (map[string][]string, error) {
	if errs := Validate(values); len(errs) > 0 {
		return errs, ErrInvalid
	}

	u, err := s.api.Onboard(ctx, Request(values))
	if err != nil {
		return gateway.FieldErrors(err), err
	}

	if u != nil {
		if err := s.profile.ReplaceUser(ctx, *u); err != nil {
			s.logger.Warn().Err(err).Msg("could not store onboarded profile")
		}
		return nil, nil
	}
	if err := s.profile.RefreshProfile(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("could not reload profile after onboarding")
	}
	return nil, nil
}
