package models

import "encoding/json"

// Content document keys. Each key holds one JSON document in the document store.
const (
	ContentMenu        = "menu"
	ContentSchedule    = "schedule"
	ContentHero        = "hero"
	ContentAbout       = "about"
	ContentSocialLinks = "sociallinks"
	ContentSettings    = "settings"
	ContentFavicon     = "favicon"
	ContentBookings    = "bookings"
	ContentOrders      = "orders"
)

// EditableContentKeys are the documents admins edit wholesale.
var EditableContentKeys = []string{
	ContentMenu, ContentSchedule, ContentHero, ContentAbout,
	ContentSocialLinks, ContentSettings, ContentFavicon,
}

type Settings struct {
	OnlineOrderingEnabled bool `json:"onlineOrderingEnabled"`
}

type FaviconContent struct {
	HasCustomFavicon bool   `json:"hasCustomFavicon"`
	SiteName         string `json:"siteName"`
	ThemeColor       string `json:"themeColor"`
}

// BackupContent maps 1:1 onto document keys; nil means "absent".
type BackupContent struct {
	Menu     json.RawMessage `json:"menu"`
	Schedule json.RawMessage `json:"schedule"`
	Bookings json.RawMessage `json:"bookings"`
	Hero     json.RawMessage `json:"hero"`
	About    json.RawMessage `json:"about"`
	Favicon  json.RawMessage `json:"favicon,omitempty"`
}

type Backup struct {
	Version    int           `json:"version"`
	ExportedAt string        `json:"exportedAt"`
	Content    BackupContent `json:"content"`
	ImageKeys  []string      `json:"imageKeys"`
}
