// Package web serves the companion dashboard: Telegram-widget login,
// cookie session, and a read-only view of schedules and dose history.
package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"github.com/Sohiburr/ToBeControl/internal/auth"
	"github.com/Sohiburr/ToBeControl/internal/domain"
	"github.com/Sohiburr/ToBeControl/internal/store"
)

const (
	sessionUserID    = "user_id"
	sessionFirstName = "first_name"
	sessionPhotoURL  = "photo_url"

	recentLogLimit = 5
)

// Server is the dashboard HTTP server. Each request is independent;
// the only cross-request state is the cookie-keyed session store.
type Server struct {
	app      *fiber.App
	sessions *session.Store
	repo     store.Repo
	log      *zap.Logger
	loc      *time.Location

	botToken    string
	botUsername string
	now         func() time.Time
}

// New builds the Fiber app with all routes registered.
func New(botToken, botUsername string, repo store.Repo, loc *time.Location, log *zap.Logger) *Server {
	engine := html.NewFileSystem(http.FS(templatesFS), ".html")

	s := &Server{
		app: fiber.New(fiber.Config{
			Views:                 engine,
			DisableStartupMessage: true,
		}),
		sessions: session.New(session.Config{
			Expiration:     24 * time.Hour,
			CookieHTTPOnly: true,
		}),
		repo:        repo,
		log:         log,
		loc:         loc,
		botToken:    botToken,
		botUsername: botUsername,
		now:         time.Now,
	}

	s.app.Get("/", s.handleHome)
	s.app.Get("/login_callback", s.handleLoginCallback)
	s.app.Get("/dashboard", s.handleDashboard)
	s.app.Get("/logout", s.handleLogout)
	return s
}

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// sessionUser returns the logged-in user's id, or ok=false when the
// request has no authenticated session.
func (s *Server) sessionUser(c *fiber.Ctx) (int64, bool) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Get(sessionUserID).(int64)
	return id, ok
}

func (s *Server) handleHome(c *fiber.Ctx) error {
	if _, ok := s.sessionUser(c); ok {
		return c.Redirect("/dashboard")
	}
	return c.Render("templates/login", fiber.Map{
		"BotUsername": s.botUsername,
	})
}

// handleLoginCallback receives the widget's signed field set as query
// parameters. Verification failure is a terminal 401 text, never a retry.
func (s *Server) handleLoginCallback(c *fiber.Ctx) error {
	fields := c.Queries()

	if !auth.VerifyLoginWidget(fields, s.botToken, s.now()) {
		return c.Status(fiber.StatusUnauthorized).SendString("Login gagal atau kadaluarsa.")
	}

	userID, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).SendString("Login gagal atau kadaluarsa.")
	}

	sess, err := s.sessions.Get(c)
	if err != nil {
		s.log.Error("session open failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Session error.")
	}
	sess.Set(sessionUserID, userID)
	sess.Set(sessionFirstName, fields["first_name"])
	sess.Set(sessionPhotoURL, fields["photo_url"])
	if err := sess.Save(); err != nil {
		s.log.Error("session save failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Session error.")
	}

	// Keep the user document in sync with the widget's profile data.
	s.repo.RegisterWeb(c.Context(), userID, fields["first_name"], fields["username"])

	return c.Redirect("/dashboard")
}

type logRow struct {
	Medication string
	Status     string
	TakenAt    string
}

func (s *Server) handleDashboard(c *fiber.Ctx) error {
	userID, ok := s.sessionUser(c)
	if !ok {
		return c.Redirect("/")
	}

	sess, err := s.sessions.Get(c)
	if err != nil {
		return c.Redirect("/")
	}
	firstName, _ := sess.Get(sessionFirstName).(string)
	photoURL, _ := sess.Get(sessionPhotoURL).(string)

	ctx := c.Context()
	schedule := s.repo.ListSchedule(ctx, userID)
	domain.SortSchedule(schedule)

	logs := s.repo.RecentDoseLogs(ctx, userID, recentLogLimit)
	rows := make([]logRow, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, logRow{
			Medication: l.Medication,
			Status:     l.Status,
			TakenAt:    l.TakenAt.In(s.loc).Format("2006-01-02 15:04"),
		})
	}

	return c.Render("templates/dashboard", fiber.Map{
		"FirstName": firstName,
		"PhotoURL":  photoURL,
		"Schedule":  schedule,
		"Total":     s.repo.TotalDoseCount(ctx, userID),
		"Logs":      rows,
	})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	if sess, err := s.sessions.Get(c); err == nil {
		if err := sess.Destroy(); err != nil {
			s.log.Warn("session destroy failed", zap.Error(err))
		}
	}
	return c.Redirect("/")
}
