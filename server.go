package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/1f349/cache"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	discord "github.com/ravener/discord-oauth2"
	"golang.org/x/oauth2"
)

var (
	//go:embed index.go.html
	indexGoHtml string
)

const CustomDateFormat = "Mon, 2 Jan 2006 15:04 MST"

func loadIndexPageTemplate() (*template.Template, error) {
	return template.New("secret-santa").Parse(indexGoHtml)
}

type santaServer struct {
	conf       Config
	store      *Store
	oauthConf  *oauth2.Config
	discordApi string
	roleMap    map[string]struct{}
	stateCache *cache.Cache[uuid.UUID, uuid.UUID]
	userCache  *cache.Cache[uuid.UUID, DiscordMember]
	pages      *template.Template

	resolveMu sync.RWMutex
	users     map[string]Player
}

func newSantaServer(conf Config, store *Store) (*santaServer, error) {
	pages, err := loadIndexPageTemplate()
	if err != nil {
		return nil, err
	}

	roleMap := make(map[string]struct{})
	for _, i := range conf.Login.Guild.Roles {
		roleMap[i] = struct{}{}
	}

	s := &santaServer{
		conf:  conf,
		store: store,
		oauthConf: &oauth2.Config{
			RedirectURL:  conf.Login.RedirectUrl,
			ClientID:     conf.Login.Id,
			ClientSecret: conf.Login.Token,
			Scopes:       []string{discord.ScopeIdentify, "guilds.members.read"},
			Endpoint:     discord.Endpoint,
		},
		discordApi: "https://discord.com/api",
		roleMap:    roleMap,
		stateCache: cache.New[uuid.UUID, uuid.UUID](),
		userCache:  cache.New[uuid.UUID, DiscordMember](),
		pages:      pages,
	}
	if err := s.resolve(); err != nil {
		return nil, err
	}
	return s, nil
}

// resolve redraws the current round from the store.
func (s *santaServer) resolve() error {
	users, err := resolvePlayers(s.store, s.conf)
	if err != nil {
		return err
	}
	s.resolveMu.Lock()
	s.users = users
	s.resolveMu.Unlock()
	return nil
}

func (s *santaServer) secretPlayer(discordId string) (Player, bool) {
	s.resolveMu.RLock()
	defer s.resolveMu.RUnlock()
	p, ok := s.users[discordId]
	return p, ok
}

func (s *santaServer) hasEnded() bool {
	return time.Now().After(s.conf.EndDate)
}

func (s *santaServer) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/", s.handleIndex)
	router.POST("/login", s.handleLogin)
	router.POST("/logout", s.handleLogout)
	router.POST("/register", s.handleRegister)
	router.GET("/callback", s.handleCallback)
	return router
}

func (s *santaServer) handleIndex(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	sessId := getSessionUuid(rw, req)
	user, ok := s.userCache.Get(sessId)
	if !ok {
		rw.WriteHeader(http.StatusOK)
		_ = s.pages.Execute(rw, map[string]any{
			"LoggedIn":       false,
			"ProfilePicture": "about:blank",
			"ProfileName":    "Wumpus",
			"EndDate":        s.conf.EndDate.Format(CustomDateFormat),
		})
		return
	}
	secretPlayer, hasRegistered := s.secretPlayer(user.User.Id)
	rw.WriteHeader(http.StatusOK)
	_ = s.pages.Execute(rw, map[string]any{
		"LoggedIn":       true,
		"ProfilePicture": generateAvatarUrl(user, s.conf.Login.Guild.Id),
		"ProfileName":    user.User.Username,
		"EndDate":        s.conf.EndDate.Format(CustomDateFormat),
		"HasRegistered":  hasRegistered,
		"HasEnded":       s.hasEnded(),
		"SecretPlayer":   secretPlayer.DiscordUser,
		"McPlayer":       secretPlayer.McUser,
	})
}

func (s *santaServer) handleLogin(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	sessId := getSessionUuid(rw, req)
	stateId := uuid.New()
	s.stateCache.Set(stateId, sessId, time.Now().Add(15*time.Minute))
	http.Redirect(rw, req, s.oauthConf.AuthCodeURL(stateId.String()), http.StatusFound)
}

func (s *santaServer) handleLogout(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	http.SetCookie(rw, &http.Cookie{
		Name:     "session-id",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(rw, req, "/", http.StatusFound)
}

func (s *santaServer) handleRegister(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	mcUser := req.FormValue("mc_user")
	if mcUser == "" {
		http.Error(rw, "Missing Minecraft username", http.StatusBadRequest)
		return
	}
	if s.hasEnded() {
		http.Error(rw, "Registration has ended", http.StatusTeapot)
		return
	}
	sessId := getSessionUuid(rw, req)
	user, ok := s.userCache.Get(sessId)
	if !ok {
		http.Error(rw, "Error: Not logged in", http.StatusForbidden)
		return
	}
	err := s.store.AddPlayer(user.User.Id, PlayerData{DiscordUser: user.User.Username, McUser: mcUser})
	if err != nil {
		log.Error("Failed to register user", "id", user.User.Id, "username", user.User.Username, "err", err)
		http.Error(rw, "Failed to register your user", http.StatusInternalServerError)
		return
	}
	if err := s.resolve(); err != nil {
		log.Error("Failed to resolve players", "err", err)
	}
	http.Redirect(rw, req, "/", http.StatusFound)
}

func (s *santaServer) handleCallback(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	sessId := getSessionUuid(rw, req)
	stateId, err := uuid.Parse(req.FormValue("state"))
	if err != nil {
		http.Error(rw, "Invalid state parameter", http.StatusBadRequest)
		return
	}
	if checkSessId, ok := s.stateCache.Get(stateId); !ok || sessId != checkSessId {
		http.Error(rw, "State does not match", http.StatusBadRequest)
		return
	}
	s.stateCache.Delete(stateId)

	token, err := s.oauthConf.Exchange(context.Background(), req.FormValue("code"))
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}

	res, err := s.oauthConf.Client(context.Background(), token).Get(s.discordApi + "/users/@me/guilds/" + s.conf.Login.Guild.Id + "/member")
	if err != nil {
		http.Error(rw, "Error collecting data from the Discord API", http.StatusInternalServerError)
		return
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	// check request status code
	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		http.Error(rw, "User must be in the Discord guild", http.StatusConflict)
		return
	default:
		http.Error(rw, "Received unexpected response from Discord", http.StatusInternalServerError)
		return
	}

	var dm DiscordMember
	if err := json.NewDecoder(res.Body).Decode(&dm); err != nil {
		http.Error(rw, "Failed to decode Discord API response", http.StatusInternalServerError)
		return
	}

	if hasRequiredRole(dm, s.roleMap) {
		s.userCache.Set(sessId, dm, time.Now().Add(12*time.Hour))
		http.Redirect(rw, req, "/", http.StatusFound)
		return
	}

	http.Error(rw, "User is missing a required role in the Discord guild", http.StatusConflict)
}

func getSessionUuid(rw http.ResponseWriter, req *http.Request) uuid.UUID {
	cookie, err := req.Cookie("session-id")
	if err == nil {
		if parse, err := uuid.Parse(cookie.Value); err == nil {
			return parse
		}
	}
	u := uuid.New()
	http.SetCookie(rw, &http.Cookie{
		Name:     "session-id",
		Value:    u.String(),
		Path:     "/",
		Expires:  time.Now().AddDate(0, 3, 0),
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	return u
}
