package models

import "time"

// ProfileKind tags the Profile variant.
type ProfileKind string

const (
	ProfileKindNone      ProfileKind = ""
	ProfileKindTalent    ProfileKind = "talent"
	ProfileKindRecruiter ProfileKind = "recruiter"
)

// DefaultCompanyName is used for recruiter profiles registered without one.
const DefaultCompanyName = "Independent"

// Profile is the role-specific record owned by a user. The set of
// implementations is closed.
type Profile interface {
	Kind() ProfileKind
	OwnerID() string
	isProfile()
}

type TalentProfile struct {
	UserID    string
	Headline  string
	CreatedAt time.Time
}

func (p *TalentProfile) Kind() ProfileKind { return ProfileKindTalent }
func (p *TalentProfile) OwnerID() string   { return p.UserID }
func (*TalentProfile) isProfile()          {}

type RecruiterProfile struct {
	UserID      string
	CompanyName string
	CreatedAt   time.Time
}

func (p *RecruiterProfile) Kind() ProfileKind { return ProfileKindRecruiter }
func (p *RecruiterProfile) OwnerID() string   { return p.UserID }
func (*RecruiterProfile) isProfile()          {}

// ProfileFields are the optional registration inputs for a profile.
// Fields irrelevant to the user's role are ignored.
type ProfileFields struct {
	Headline    string
	CompanyName string
}
