// internal/domain/models/organization.go
package models

import (
	"errors"
	"time"
)

// Organization is the satellite document for brand and agency accounts.
// Its _id equals the creating owner's subject id.
//
// Members[0] is always the owner: role "owner", invited by themselves, joined
// at creation time. The store enforces this head invariant at every write that
// creates the document; later membership changes go through AddMember.
type Organization struct {
	ID       string `bson:"_id" json:"id"`
	Type     string `bson:"type" json:"type"` // brand | agency
	Name     string `bson:"name" json:"name"`
	NameCI   string `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Website  string `bson:"website,omitempty" json:"website,omitempty"`
	Logo     string `bson:"logo,omitempty" json:"logo,omitempty"`
	Industry string `bson:"industry,omitempty" json:"industry,omitempty"`

	OwnerID string               `bson:"owner_id" json:"owner_id"`
	Members []OrganizationMember `bson:"members" json:"members"`

	Onboarding *OrganizationOnboarding `bson:"onboarding_data,omitempty" json:"onboarding_data,omitempty"`

	SubscriptionID string   `bson:"subscription_id,omitempty" json:"subscription_id,omitempty"`
	ClientBrandIDs []string `bson:"client_brand_ids,omitempty" json:"client_brand_ids,omitempty"` // agency only

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// OrganizationMember is one seat in an organization.
type OrganizationMember struct {
	UserID      string    `bson:"user_id" json:"user_id"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	Role        string    `bson:"role" json:"role"` // owner | admin | member | viewer
	JoinedAt    time.Time `bson:"joined_at" json:"joined_at"`
	InvitedBy   string    `bson:"invited_by" json:"invited_by"`
}

// OrganizationOnboarding is a tagged union: exactly one of Brand or Agency is
// set, matching Type. The store rejects writes that violate this via Validate.
type OrganizationOnboarding struct {
	Type        string               `bson:"type" json:"type"` // brand | agency
	Brand       *BrandOnboardingData `bson:"brand,omitempty" json:"brand,omitempty"`
	Agency      *AgencyOnboardingData `bson:"agency,omitempty" json:"agency,omitempty"`
	CompletedAt time.Time            `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

var (
	// ErrOnboardingTypeMismatch is returned when the onboarding payload shape
	// does not match its declared type.
	ErrOnboardingTypeMismatch = errors.New("onboarding payload does not match its declared type")
)

// Validate checks the tagged-union discipline of the onboarding payload.
func (o *OrganizationOnboarding) Validate() error {
	switch o.Type {
	case UserTypeBrand:
		if o.Brand == nil || o.Agency != nil {
			return ErrOnboardingTypeMismatch
		}
	case UserTypeAgency:
		if o.Agency == nil || o.Brand != nil {
			return ErrOnboardingTypeMismatch
		}
	default:
		return ErrOnboardingTypeMismatch
	}
	return nil
}

// BrandOnboardingData captures the brand questionnaire.
type BrandOnboardingData struct {
	CompanyName    string   `bson:"company_name" json:"company_name"`
	Website        string   `bson:"website" json:"website"`
	Logo           string   `bson:"logo,omitempty" json:"logo,omitempty"`
	Industry       string   `bson:"industry" json:"industry"`
	CompanySize    string   `bson:"company_size" json:"company_size"`
	MarketingGoals []string `bson:"marketing_goals" json:"marketing_goals"`

	TargetCountries []string `bson:"target_countries" json:"target_countries"`
	TargetAgeRange  [2]int   `bson:"target_age_range" json:"target_age_range"`
	TargetGender    string   `bson:"target_gender" json:"target_gender"` // all | male | female
	TargetInterests []string `bson:"target_interests" json:"target_interests"`

	MonthlyBudget            string   `bson:"monthly_budget" json:"monthly_budget"`
	PreferredPlatforms       []string `bson:"preferred_platforms" json:"preferred_platforms"`
	PreferredInfluencerTiers []string `bson:"preferred_influencer_tiers" json:"preferred_influencer_tiers"`
}

// AgencyOnboardingData captures the agency questionnaire.
type AgencyOnboardingData struct {
	AgencyName            string   `bson:"agency_name" json:"agency_name"`
	Website               string   `bson:"website" json:"website"`
	Logo                  string   `bson:"logo,omitempty" json:"logo,omitempty"`
	ServicesOffered       []string `bson:"services_offered" json:"services_offered"`
	IndustriesServed      []string `bson:"industries_served" json:"industries_served"`
	TypicalClientSize     string   `bson:"typical_client_size" json:"typical_client_size"`
	AverageCampaignBudget string   `bson:"average_campaign_budget" json:"average_campaign_budget"`
	TeamSize              int      `bson:"team_size" json:"team_size"`
	SeatsNeeded           int      `bson:"seats_needed" json:"seats_needed"`
}
