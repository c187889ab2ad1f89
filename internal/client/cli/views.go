package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/moncraft/portal/internal/client/models"
	"github.com/moncraft/portal/internal/client/router"
)

// guardAction checks a non-route command (buy, promote, ...) against the
// requirement of the view it belongs to. Rendering a redirect here mirrors
// what opening the owning route would do.
func (a *App) guardAction(req router.Requirement) bool {
	switch d := router.Decide(a.auth.Session(), req); d.Action {
	case router.Defer:
		fmt.Fprintln(a.out, "Session still resolving, try again in a moment...")
		return false
	case router.Redirect:
		fmt.Fprintf(a.out, "You need %s access for this command.\n", req)
		return false
	default:
		return true
	}
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return formatTime(*t)
}

func (a *App) showHome(ctx context.Context) {
	st, err := a.portal.ServerStatus(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load server status:", err)
		return
	}
	fmt.Fprintln(a.out, "== MonCraft server ==")
	fmt.Fprintf(a.out, "Players online: %d/%d\n", st.PlayersOnline, st.MaxPlayers)
	if st.ServerVersion != "" {
		fmt.Fprintf(a.out, "Version:        %s\n", st.ServerVersion)
	}
	if st.MOTD != "" {
		fmt.Fprintf(a.out, "MOTD:           %s\n", st.MOTD)
	}
	fmt.Fprintf(a.out, "Latency:        %.0fms\n", st.LatencyMs)
}

func (a *App) showProfile() {
	s := a.auth.Session()
	if s.Identity == nil {
		// The guard keeps this unreachable; belt and braces for direct calls.
		fmt.Fprintln(a.out, "Not logged in")
		return
	}
	id := s.Identity
	fmt.Fprintln(a.out, "== Profile ==")
	fmt.Fprintf(a.out, "Username:     %s\n", id.Username)
	fmt.Fprintf(a.out, "UUID:         %s\n", id.UUID)
	role := "player"
	if id.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "Role:         %s\n", role)
	fmt.Fprintf(a.out, "Member since: %s\n", formatTime(id.CreatedAt))
	fmt.Fprintf(a.out, "Last login:   %s\n", formatOptTime(id.LastLogin))
	if id.LoginCount > 0 {
		fmt.Fprintf(a.out, "Logins:       %d\n", id.LoginCount)
	}
	if id.AvatarURL != "" {
		fmt.Fprintf(a.out, "Skin:         %s\n", id.AvatarURL)
	}
}

func (a *App) showShop(ctx context.Context) {
	items, err := a.portal.ShopItems(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load shop items:", err)
		return
	}
	fmt.Fprintln(a.out, "== Shop ==")
	if len(items) == 0 {
		fmt.Fprintln(a.out, "The shop is empty")
		return
	}
	for _, it := range items {
		fmt.Fprintf(a.out, "%-12s %5d coins  %s", it.ID, it.Price, it.Name)
		if it.Description != "" {
			fmt.Fprintf(a.out, " - %s", it.Description)
		}
		fmt.Fprintln(a.out)
	}
	fmt.Fprintln(a.out, "Use 'buy <item-id>' to purchase (members only)")
}

func (a *App) buy(ctx context.Context, itemID string) {
	if !a.guardAction(router.MemberOnly) {
		return
	}
	p, err := a.portal.Buy(ctx, itemID)
	if err != nil {
		fmt.Fprintln(a.out, "Purchase failed:", err)
		return
	}
	fmt.Fprintf(a.out, "Purchased %s for %d coins\n", p.ItemName, p.Price)
}

func (a *App) showPurchases(ctx context.Context) {
	ps, err := a.portal.MyPurchases(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load purchases:", err)
		return
	}
	fmt.Fprintln(a.out, "== My purchases ==")
	if len(ps) == 0 {
		fmt.Fprintln(a.out, "No purchases yet")
		return
	}
	for _, p := range ps {
		fmt.Fprintf(a.out, "%s  %-20s %5d coins\n", formatTime(p.CreatedAt), p.ItemName, p.Price)
	}
}

func (a *App) showAdmin(ctx context.Context) {
	st, err := a.portal.AdminStats(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load admin stats:", err)
	} else {
		fmt.Fprintln(a.out, "== Admin panel ==")
		fmt.Fprintf(a.out, "Total users:    %d\n", st.TotalUsers)
		fmt.Fprintf(a.out, "Admins:         %d\n", st.AdminUsers)
		fmt.Fprintf(a.out, "Players online: %d/%d\n", st.ServerStatus.PlayersOnline, st.ServerStatus.MaxPlayers)
		fmt.Fprintf(a.out, "Latency:        %.0fms\n", st.ServerStatus.LatencyMs)
	}

	users, err := a.portal.Users(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load users:", err)
		return
	}
	fmt.Fprintln(a.out, "-- Users --")
	for _, u := range users {
		a.printUser(u)
	}
	fmt.Fprintln(a.out, "Commands: promote <id>, rmuser <id>, activity, logs, sales")
}

func (a *App) printUser(u models.Identity) {
	role := "player"
	if u.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "%-36s %-16s %-6s joined %s\n", u.ID, u.Username, role, formatTime(u.CreatedAt))
}

func (a *App) toggleAdmin(ctx context.Context, userID string) {
	if !a.guardAction(router.AdminOnly) {
		return
	}
	if err := a.portal.ToggleAdmin(ctx, userID); err != nil {
		fmt.Fprintln(a.out, "Cannot update admin status:", err)
		return
	}
	fmt.Fprintln(a.out, "Admin status toggled for", userID)
}

func (a *App) deleteUser(ctx context.Context, userID string) {
	if !a.guardAction(router.AdminOnly) {
		return
	}
	if err := a.portal.DeleteUser(ctx, userID); err != nil {
		fmt.Fprintln(a.out, "Cannot delete user:", err)
		return
	}
	fmt.Fprintln(a.out, "User deleted:", userID)
}

func (a *App) showActivity(ctx context.Context) {
	if !a.guardAction(router.AdminOnly) {
		return
	}
	entries, err := a.portal.UserActivity(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load user activity:", err)
		return
	}
	fmt.Fprintln(a.out, "== User activity ==")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-16s logins: %-4d last: %s\n", e.Username, e.LoginCount, formatOptTime(e.LastLogin))
	}
}

func (a *App) showLogs(ctx context.Context) {
	if !a.guardAction(router.AdminOnly) {
		return
	}
	logs, err := a.portal.ServerLogs(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load server logs:", err)
		return
	}
	fmt.Fprintln(a.out, "== Server logs ==")
	for _, l := range logs {
		fmt.Fprintf(a.out, "%s [%s] %s\n", l.Timestamp.Format(time.RFC3339), l.Level, l.Message)
	}
}

func (a *App) showAdminPurchases(ctx context.Context) {
	if !a.guardAction(router.AdminOnly) {
		return
	}
	ps, err := a.portal.AdminPurchases(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot load purchases:", err)
		return
	}
	fmt.Fprintln(a.out, "== All purchases ==")
	for _, p := range ps {
		fmt.Fprintf(a.out, "%s  %-16s %-20s %5d coins\n", formatTime(p.CreatedAt), p.Username, p.ItemName, p.Price)
	}
}
