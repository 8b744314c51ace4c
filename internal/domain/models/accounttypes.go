// internal/domain/models/accounttypes.go
package models

// Terminology: Account Identifiers
//   - SubjectID / subject_id: the stable identifier the credential provider
//     assigns to an authenticated principal. It is reused as the document _id
//     for User, Organization, and Influencer records.
//   - OrganizationID: for brand/agency accounts, equal to the owner's SubjectID.

// User types determine which satellite document accompanies a User.
const (
	UserTypeBrand      = "brand"
	UserTypeAgency     = "agency"
	UserTypeInfluencer = "influencer"
)

// Organization member roles.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// Auth providers.
const (
	ProviderEmail    = "email"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// Influencer tiers, coarse follower-count buckets. Tier assignment is done by
// the metrics pipeline, not by this service; TierNano is the creation default.
const (
	TierNano  = "nano"
	TierMicro = "micro"
	TierMid   = "mid"
	TierMacro = "macro"
	TierMega  = "mega"
)

// Social platforms an influencer can connect.
const (
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformYouTube   = "youtube"
	PlatformTwitter   = "twitter"
)

// IsValidUserType checks if a value is a valid user type.
func IsValidUserType(value string) bool {
	switch value {
	case UserTypeBrand, UserTypeAgency, UserTypeInfluencer:
		return true
	}
	return false
}

// IsOrganizationType checks if a user type owns an Organization document
// (brand and agency accounts do; influencer accounts own an Influencer profile).
func IsOrganizationType(value string) bool {
	return value == UserTypeBrand || value == UserTypeAgency
}

// IsValidRole checks if a value is a valid organization member role.
func IsValidRole(value string) bool {
	switch value {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// IsValidAuthProvider checks if a value is a valid auth provider.
func IsValidAuthProvider(value string) bool {
	switch value {
	case ProviderEmail, ProviderGoogle, ProviderFacebook:
		return true
	}
	return false
}

// IsSocialProvider checks if a provider is one of the OAuth popup flows.
func IsSocialProvider(value string) bool {
	return value == ProviderGoogle || value == ProviderFacebook
}

// ProviderAllowedForUserType enforces the authProvider/userType compatibility
// invariant: influencer accounts authenticate through a social provider;
// brand/agency accounts authenticate through the email/password channel.
func ProviderAllowedForUserType(userType, provider string) bool {
	if userType == UserTypeInfluencer {
		return IsSocialProvider(provider)
	}
	return provider == ProviderEmail
}

// IsValidTier checks if a value is a valid influencer tier.
func IsValidTier(value string) bool {
	switch value {
	case TierNano, TierMicro, TierMid, TierMacro, TierMega:
		return true
	}
	return false
}

// IsValidPlatform checks if a value is a supported social platform.
func IsValidPlatform(value string) bool {
	switch value {
	case PlatformInstagram, PlatformTikTok, PlatformYouTube, PlatformTwitter:
		return true
	}
	return false
}
