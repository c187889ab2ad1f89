package models

import "time"

// ServerStatus is the game server health snapshot from /server/status.
type ServerStatus struct {
	PlayersOnline int       `json:"players_online"`
	MaxPlayers    int       `json:"max_players"`
	ServerVersion string    `json:"server_version,omitempty"`
	MOTD          string    `json:"motd,omitempty"`
	LatencyMs     float64   `json:"latency,omitempty"`
	LastUpdated   time.Time `json:"last_updated"`
}

// PlayersOnline is the reduced /server/players payload.
type PlayersOnline struct {
	PlayersOnline int `json:"players_online"`
	MaxPlayers    int `json:"max_players"`
}

// ShopItem is a purchasable catalog entry from /shop/items.
type ShopItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int    `json:"price"`
}

// Purchase is a completed shop purchase. The member view (/shop/purchases)
// omits Username; the admin view (/admin/shop/purchases) includes it.
type Purchase struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	ItemName  string    `json:"item_name"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"minecraft_username,omitempty"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminStats aggregates portal-wide counters for the admin panel.
type AdminStats struct {
	TotalUsers   int          `json:"total_users"`
	AdminUsers   int          `json:"admin_users"`
	ServerStatus ServerStatus `json:"server_status"`
	RecentLogins []Identity   `json:"recent_logins,omitempty"`
}

// ActivityEntry summarizes one user's login activity for /admin/users/activity.
type ActivityEntry struct {
	UserID     string     `json:"user_id"`
	Username   string     `json:"minecraft_username"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	LoginCount int        `json:"login_count"`
}

// LogEntry is one line of the game server log exposed at /admin/server/logs.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}
