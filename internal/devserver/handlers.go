package devserver

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moncraft/portal/internal/client/models"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"minecraft_username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !usernamePattern.MatchString(req.Username) {
		writeError(w, http.StatusBadRequest, "Invalid Minecraft username")
		return
	}

	s.mu.Lock()
	var user *models.Identity
	for _, u := range s.users {
		if u.Username == req.Username {
			user = u
			break
		}
	}
	if user == nil {
		// First login provisions the account.
		user = s.newUser(req.Username)
		s.users[user.ID] = user
	}
	now := s.now().UTC()
	user.LastLogin = &now
	user.LoginCount++
	snapshot := *user
	s.mu.Unlock()

	token, err := s.mintToken(&snapshot)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		User:        snapshot,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) serverStatus() models.ServerStatus {
	s.mu.Lock()
	online := len(s.users)
	s.mu.Unlock()
	return models.ServerStatus{
		PlayersOnline: online,
		MaxPlayers:    20,
		ServerVersion: "1.21.4",
		MOTD:          "Welcome to MonCraft!",
		LatencyMs:     12,
		LastUpdated:   s.now().UTC(),
	}
}

func (s *Server) handleServerStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.serverStatus())
}

func (s *Server) handleOnlinePlayers(w http.ResponseWriter, _ *http.Request) {
	st := s.serverStatus()
	writeJSON(w, http.StatusOK, models.PlayersOnline{
		PlayersOnline: st.PlayersOnline,
		MaxPlayers:    st.MaxPlayers,
	})
}

func (s *Server) handleShopItems(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := append([]models.ShopItem(nil), s.items...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	user := currentUser(r)

	s.mu.Lock()
	var item *models.ShopItem
	for i := range s.items {
		if s.items[i].ID == itemID {
			item = &s.items[i]
			break
		}
	}
	if item == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	p := models.Purchase{
		ID:        uuid.NewString(),
		ItemID:    item.ID,
		ItemName:  item.Name,
		UserID:    user.ID,
		Username:  user.Username,
		Price:     item.Price,
		CreatedAt: s.now().UTC(),
	}
	s.purchases = append(s.purchases, p)
	s.mu.Unlock()

	// The member view omits the username field.
	member := p
	member.Username = ""
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) handleMyPurchases(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	s.mu.Lock()
	var ps []models.Purchase
	for _, p := range s.purchases {
		if p.UserID == user.ID {
			p.Username = ""
			ps = append(ps, p)
		}
	}
	s.mu.Unlock()

	if ps == nil {
		ps = []models.Purchase{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *Server) handleAdminPurchases(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	ps := append([]models.Purchase(nil), s.purchases...)
	s.mu.Unlock()
	if ps == nil {
		ps = []models.Purchase{}
	}
	writeJSON(w, http.StatusOK, ps)
}

// sortedUsers returns users ordered by creation time for stable listings.
func (s *Server) sortedUsers() []models.Identity {
	s.mu.Lock()
	users := make([]models.Identity, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	s.mu.Unlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Username < users[j].Username
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users
}

func (s *Server) handleUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sortedUsers())
}

func (s *Server) handleToggleAdmin(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	s.mu.Lock()
	u, ok := s.users[userID]
	if ok {
		u.IsAdmin = !u.IsAdmin
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User admin status updated"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if currentUser(r).ID == userID {
		writeError(w, http.StatusBadRequest, "Cannot delete yourself")
		return
	}

	s.mu.Lock()
	_, ok := s.users[userID]
	delete(s.users, userID)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, _ *http.Request) {
	users := s.sortedUsers()

	admins := 0
	var recent []models.Identity
	for _, u := range users {
		if u.IsAdmin {
			admins++
		}
		if u.LastLogin != nil {
			recent = append(recent, u)
		}
	}
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].LastLogin.After(*recent[j].LastLogin)
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}

	writeJSON(w, http.StatusOK, models.AdminStats{
		TotalUsers:   len(users),
		AdminUsers:   admins,
		ServerStatus: s.serverStatus(),
		RecentLogins: recent,
	})
}

func (s *Server) handleUserActivity(w http.ResponseWriter, _ *http.Request) {
	users := s.sortedUsers()
	entries := make([]models.ActivityEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, models.ActivityEntry{
			UserID:     u.ID,
			Username:   u.Username,
			LastLogin:  u.LastLogin,
			LoginCount: u.LoginCount,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleServerLogs(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	logs := append([]models.LogEntry(nil), s.logs...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, logs)
}
