package profiles

import (
	"context"

	"github.com/dmitrijs2005/talentbridge/internal/server/models"
)

// Repository persists role-specific profiles. Callers create profiles only
// inside the transaction that creates the owning user.
type Repository interface {
	CreateTalent(ctx context.Context, p *models.TalentProfile) (*models.TalentProfile, error)
	CreateRecruiter(ctx context.Context, p *models.RecruiterProfile) (*models.RecruiterProfile, error)
	Get(ctx context.Context, userID string, kind models.ProfileKind) (models.Profile, error)
}
