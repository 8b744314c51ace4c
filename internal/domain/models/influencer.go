// internal/domain/models/influencer.go
package models

import "time"

// Influencer is the satellite document for influencer accounts. Its _id (and
// UserID) equal the owning user's subject id.
//
// SearchableNiches and SearchableCountry are denormalized, folded copies of
// Profile.Niches / Profile.Country kept for the query layer. Every write site
// that touches the profile must refresh them; the store performs no schema
// validation of its own.
type Influencer struct {
	ID     string `bson:"_id" json:"id"`
	UserID string `bson:"user_id" json:"user_id"`

	Profile        InfluencerProfile `bson:"profile" json:"profile"`
	SocialAccounts SocialAccounts    `bson:"social_accounts" json:"social_accounts"`
	Metrics        InfluencerMetrics `bson:"metrics" json:"metrics"`
	RateCard       RateCard          `bson:"rate_card" json:"rate_card"`

	Verified bool `bson:"verified" json:"verified"`
	Featured bool `bson:"featured" json:"featured"`

	SearchableNiches  []string `bson:"searchable_niches" json:"searchable_niches"`
	SearchableCountry string   `bson:"searchable_country" json:"searchable_country"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// InfluencerProfile holds the self-described creator profile.
type InfluencerProfile struct {
	DisplayName string   `bson:"display_name" json:"display_name"`
	Bio         string   `bson:"bio" json:"bio"`
	Avatar      string   `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CoverImage  string   `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	Country     string   `bson:"country" json:"country"`
	City        string   `bson:"city,omitempty" json:"city,omitempty"`
	Languages   []string `bson:"languages" json:"languages"`
	Niches      []string `bson:"niches" json:"niches"`
}

// SocialAccounts maps each supported platform to an optional connection.
// Connections are written by the platform-connection pipeline; this service
// only reads them.
type SocialAccounts struct {
	Instagram *SocialAccount `bson:"instagram,omitempty" json:"instagram,omitempty"`
	TikTok    *SocialAccount `bson:"tiktok,omitempty" json:"tiktok,omitempty"`
	YouTube   *SocialAccount `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   *SocialAccount `bson:"twitter,omitempty" json:"twitter,omitempty"`
}

// SocialAccount is one connected platform account.
type SocialAccount struct {
	Platform       string    `bson:"platform" json:"platform"`
	Handle         string    `bson:"handle" json:"handle"`
	ProfileURL     string    `bson:"profile_url" json:"profile_url"`
	Followers      int64     `bson:"followers" json:"followers"`
	EngagementRate float64   `bson:"engagement_rate" json:"engagement_rate"`
	Connected      bool      `bson:"connected" json:"connected"`
	AccessToken    string    `bson:"access_token,omitempty" json:"-"`
	LastVerified   time.Time `bson:"last_verified" json:"last_verified"`
}

// InfluencerMetrics holds aggregate audience numbers. Computed by the metrics
// pipeline; initialized to zeroes (tier nano) at provisioning.
type InfluencerMetrics struct {
	TotalFollowers    int64     `bson:"total_followers" json:"total_followers"`
	AverageEngagement float64   `bson:"average_engagement" json:"average_engagement"`
	AuthenticityScore float64   `bson:"authenticity_score" json:"authenticity_score"`
	Tier              string    `bson:"tier" json:"tier"` // nano | micro | mid | macro | mega
	LastUpdated       time.Time `bson:"last_updated" json:"last_updated"`
}

// RateCard holds the creator's asking rates per content format.
type RateCard struct {
	Currency string  `bson:"currency" json:"currency"`
	Post     float64 `bson:"post" json:"post"`
	Story    float64 `bson:"story" json:"story"`
	Reel     float64 `bson:"reel" json:"reel"`
	Video    float64 `bson:"video" json:"video"`
}
