// internal/domain/models/user.go
package models

import "time"

// User is the one-per-principal account record. Its _id is the credential
// provider's subject id, never a generated ObjectID, so a verified principal
// maps to its documents without a secondary lookup.
//
// NOTE:
//   - OrganizationID is set iff UserType is brand or agency, and always equals
//     the owning user's subject id at registration (owner id doubles as org id).
//   - Influencer profile data is not embedded here; it lives in the
//     influencers collection under the same _id.
type User struct {
	ID            string `bson:"_id" json:"id"`
	Email         string `bson:"email" json:"email"`
	DisplayName   string `bson:"display_name" json:"display_name"`
	DisplayNameCI string `bson:"display_name_ci" json:"display_name_ci"` // lowercase, diacritics-stripped
	PhotoURL      string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`

	UserType       string `bson:"user_type" json:"user_type"` // brand | agency | influencer
	OrganizationID string `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	Role           string `bson:"role,omitempty" json:"role,omitempty"` // owner | admin | member | viewer

	AuthProvider    string `bson:"auth_provider" json:"auth_provider"` // email | google | facebook
	EmailVerified   bool   `bson:"email_verified" json:"email_verified"`
	IsPersonalEmail bool   `bson:"is_personal_email,omitempty" json:"is_personal_email,omitempty"`

	OnboardingCompleted bool `bson:"onboarding_completed" json:"onboarding_completed"`
	OnboardingStep      int  `bson:"onboarding_step,omitempty" json:"onboarding_step,omitempty"`

	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
	LastLoginAt time.Time `bson:"last_login_at" json:"last_login_at"`
}
