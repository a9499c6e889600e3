package settings

import (
	"context"

	"github.com/solera-market/solera/internal/models"
)

// PublicSettings is the projection served to unauthenticated clients. It is
// built exclusively from rows flagged is_public; encrypted settings and
// private plain settings can never appear here. This is a security boundary,
// not a convenience filter.
type PublicSettings struct {
	AgeVerificationRequired bool           `json:"ageVerificationRequired"`
	MinAgeForAlcohol        int            `json:"minAgeForAlcohol"`
	PlatformName            string         `json:"platformName"`
	Extra                   map[string]any `json:"extra,omitempty"`
}

// typed keys lifted out of Extra into first-class fields
var publicTypedKeys = map[string]struct{}{
	models.SettingKeyAgeVerificationRequired: {},
	models.SettingKeyMinAgeForAlcohol:        {},
	models.SettingKeyPlatformName:            {},
}

// resolvePublic builds the projection from the public rows, applying the
// documented defaults for the typed fields when their rows are absent or
// not public.
func (s *Service) resolvePublic(ctx context.Context) (PublicSettings, error) {
	rows, err := s.store.ListPublic(ctx)
	if err != nil {
		return PublicSettings{}, err
	}

	out := PublicSettings{
		AgeVerificationRequired: false,
		MinAgeForAlcohol:        DefaultMinAgeForAlcohol,
		PlatformName:            DefaultPlatformName,
	}

	if v, ok := rows[models.SettingKeyAgeVerificationRequired].(bool); ok {
		out.AgeVerificationRequired = v
	}
	if v, ok := rows[models.SettingKeyMinAgeForAlcohol].(float64); ok {
		out.MinAgeForAlcohol = int(v)
	}
	if v, ok := rows[models.SettingKeyPlatformName].(string); ok && v != "" {
		out.PlatformName = v
	}

	for key, value := range rows {
		if _, typed := publicTypedKeys[key]; typed {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[key] = value
	}

	return out, nil
}
