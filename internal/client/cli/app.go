package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cloudsafe/cloudsafe/internal/client/api"
	"github.com/cloudsafe/cloudsafe/internal/client/config"
	"github.com/cloudsafe/cloudsafe/internal/client/guard"
	"github.com/cloudsafe/cloudsafe/internal/client/models"
	"github.com/cloudsafe/cloudsafe/internal/client/services"
	"github.com/cloudsafe/cloudsafe/internal/client/session"

	_ "modernc.org/sqlite"
)

// App ties the interactive REPL to the client services. The userName field
// is cosmetic (prompt only); access control always goes through the guard,
// which re-reads the session store on every protected command.
type App struct {
	config           *config.Config
	store            session.Store
	guard            *guard.Guard
	authService      services.AuthService
	fileService      services.FileService
	profileService   services.ProfileService
	activityService  services.ActivityService
	analyticsService services.AnalyticsService

	userName string
	files    []models.FileRecord
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	store, err := session.OpenStore(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing session store: %s", err.Error())
		return nil, err
	}

	gateway := api.NewHTTPGateway(c.ServerBaseURL, c.HTTPTimeout)

	a := &App{
		config:           c,
		store:            store,
		guard:            guard.New(store),
		authService:      services.NewAuthService(gateway, store),
		fileService:      services.NewFileService(gateway),
		profileService:   services.NewProfileService(gateway),
		activityService:  services.NewActivityService(gateway),
		analyticsService: services.NewAnalyticsService(gateway),
		reader:           bufio.NewReader(os.Stdin),
	}

	// Seed the prompt from a session left over by a previous run.
	if sess, err := store.Load(ctx); err == nil && sess.IsComplete() {
		a.userName = sess.SubjectID
	}

	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if c, ok := a.store.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// requireSession runs the navigation guard. On redirect it tells the user to
// login and reports false; the calling command must not touch the network.
func (a *App) requireSession(ctx context.Context) (session.Session, bool) {
	sess, decision, err := a.guard.Check(ctx)
	if err != nil {
		log.Printf("session check error: %s", err.Error())
		return session.Session{}, false
	}
	if decision == guard.Redirected {
		a.userName = ""
		fmt.Println("Not logged in. Please login first.")
		return session.Session{}, false
	}
	return sess, true
}
