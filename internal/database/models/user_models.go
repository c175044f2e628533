package models

import "time"

type User struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	OrganizationID int64  `gorm:"index;not null"`
	Username       string `gorm:"uniqueIndex;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	Password       string `gorm:"not null"`
	Firstname      string `gorm:"not null"`
	Lastname       string `gorm:"not null"`
	RoleID         int32  `gorm:"not null"`
	Role           Role   `gorm:"foreignKey:RoleID"`
	IsActive       bool   `gorm:"default:false"`
	LastLogin      *time.Time
	CreatedAt      *time.Time `gorm:"autoCreateTime"`
	UpdatedAt      *time.Time `gorm:"autoUpdateTime"`
}

type Role struct {
	ID          int32      `gorm:"primaryKey;autoIncrement"`
	RoleName    string     `gorm:"uniqueIndex;not null"`
	AccessLevel int32      `gorm:"not null"`
	Permissions string     `gorm:"type:text"`
	CreatedAt   *time.Time `gorm:"autoCreateTime"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime"`
}

// Role names with reserved meaning. RoleAdmin is required for user-role
// administration within an organization.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// OrganizationProfile holds the company details stamped onto reports and
// labels; its ID is the organization id every other table scopes by.
// Reports cannot be assembled until the required fields are set.
type OrganizationProfile struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	CompanyName string `gorm:"size:255"`
	Address     string `gorm:"type:text"`
	Currency    string `gorm:"size:10"`
	LogoURL     string `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ShopifyIntegration rows are written only by the OAuth callback handler.
type ShopifyIntegration struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	OrganizationID int64  `gorm:"uniqueIndex;not null"`
	ShopDomain     string `gorm:"size:255;not null"`
	AccessToken    string `gorm:"size:512;not null"`
	Scope          string `gorm:"size:512"`
	ConnectedAt    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrgSetting is an explicit persisted settings record keyed per organization,
// replacing ambient client-side storage. Unset keys fall back to defaults.
type OrgSetting struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	OrganizationID int64  `gorm:"uniqueIndex:idx_org_setting;not null"`
	Key            string `gorm:"uniqueIndex:idx_org_setting;size:100;not null"`
	Value          string `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Known settings keys and their defaults.
const (
	SettingAnnouncementDismissed = "announcement_dismissed"
	SettingAutoReorderEnabled    = "auto_reorder_enabled"
	SettingWalletBalance         = "wallet_balance"
)

var SettingDefaults = map[string]string{
	SettingAnnouncementDismissed: "false",
	SettingAutoReorderEnabled:    "false",
	SettingWalletBalance:         "0.00",
}
