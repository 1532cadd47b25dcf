package domain

import "time"

type Click struct {
	ID        string    `json:"id" db:"id"`
	LinkID    string    `json:"link_id" db:"link_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	Referer   string    `json:"referer" db:"referer"`
	IP        string    `json:"ip" db:"ip"`
}

type ClickRequest struct {
	LinkID    string
	UserAgent string
	Referer   string
	IP        string
}

// RecentClick is a click joined with the slug and title of its link.
type RecentClick struct {
	Click
	LinkSlug  string `json:"link_slug" db:"link_slug"`
	LinkTitle string `json:"link_title" db:"link_title"`
}

// AnalyticsSummary holds per-category click counts for one link.
// It is derived from the click history and never persisted.
type AnalyticsSummary struct {
	Browsers  map[string]int64 `json:"browsers"`
	Devices   map[string]int64 `json:"devices"`
	Referrers map[string]int64 `json:"referrers"`
}

// Bucket is one entry of a summary map prepared for display. Label is the
// human readable form of Name (for referrers, the host).
type Bucket struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type LinkAnalytics struct {
	Link        *Link            `json:"link"`
	Clicks      []Click          `json:"clicks"`
	Summary     AnalyticsSummary `json:"summary"`
	Browsers    []Bucket         `json:"browsers"`
	Devices     []Bucket         `json:"devices"`
	Referrers   []Bucket         `json:"referrers"`
	LastClickAt *time.Time       `json:"last_click_at"`
}

type DashboardStats struct {
	TotalLinks       int64         `json:"total_links"`
	TotalClicks      int64         `json:"total_clicks"`
	AvgClicksPerLink int64         `json:"avg_clicks_per_link"`
	TopLinks         []Link        `json:"top_links"`
	RecentClicks     []RecentClick `json:"recent_clicks"`
}
