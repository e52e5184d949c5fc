package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/common-nighthawk/go-figure"
	"github.com/dmitrijs2005/companyadmin/internal/client/client"
	"github.com/dmitrijs2005/companyadmin/internal/client/config"
	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dmitrijs2005/companyadmin/internal/client/services"
	"github.com/dmitrijs2005/companyadmin/internal/client/session"
	"github.com/dmitrijs2005/companyadmin/internal/common"
	"github.com/dmitrijs2005/companyadmin/internal/logging"
)

const appName = "CompanyAdmin"

type CompanyService interface {
	ListMine(ctx context.Context, page int) (models.Page[models.Company], error)
	ListAll(ctx context.Context, page int, sortBy, order string) (models.Page[models.Company], error)
	Get(ctx context.Context, id int64) (*models.Company, error)
	Create(ctx context.Context, in models.CompanyInput) (*models.Company, error)
	Update(ctx context.Context, id int64, in models.CompanyInput) (*models.Company, error)
	Delete(ctx context.Context, id int64) error
	UploadLogo(ctx context.Context, id int64, filename string, r io.Reader) (*models.Company, error)
}

type AdminService interface {
	Stats(ctx context.Context) (models.AdminStats, error)
	Admins(ctx context.Context) ([]models.Admin, error)
	AddAdmin(ctx context.Context, email string) (*models.Admin, error)
	DeleteAdmin(ctx context.Context, id int64) error
}

type ProfileService interface {
	ChangePassword(ctx context.Context, current, next, confirm string) error
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (*models.User, error)
}

type HistoryService interface {
	List(ctx context.Context, all bool) ([]models.HistoryAction, error)
}

// Deps are the collaborators of an App. In and Out default to the process's
// standard streams.
type Deps struct {
	Config    *config.Config
	Logger    logging.Logger
	Session   *session.Manager
	Auth      services.AuthService
	Companies CompanyService
	Admins    AdminService
	Profile   ProfileService
	History   HistoryService
	In        io.Reader
	Out       io.Writer
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	session     *session.Manager
	authService services.AuthService
	companies   CompanyService
	admins      AdminService
	profile     ProfileService
	history     HistoryService

	reader *bufio.Reader
	out    io.Writer

	mu     sync.Mutex
	screen string
}

func NewApp(d Deps) *App {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Logger == nil {
		d.Logger = logging.Nop{}
	}
	return &App{
		config:      d.Config,
		logger:      d.Logger,
		session:     d.Session,
		authService: d.Auth,
		companies:   d.Companies,
		admins:      d.Admins,
		profile:     d.Profile,
		history:     d.History,
		reader:      bufio.NewReader(d.In),
		out:         d.Out,
		screen:      common.LoginPath,
	}
}

// Run resolves the stored session and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx = session.WithManager(ctx, a.session)

	a.println(figure.NewFigure(appName, "", true).String())
	a.println("Welcome to CompanyAdmin CLI (type 'help' for commands)")

	a.session.OnChange(func(st session.State) {
		a.logger.Debug(ctx, "session changed", "status", st.Status.String())
	})

	st := a.session.Init(ctx)
	if st.IsAuthenticated() {
		a.Navigate(common.DashboardPath, true)
		a.printf("Signed in as %s (%s)\n", st.User.Email, st.Role)
	} else {
		a.Navigate(common.LoginPath, true)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Notify prints gateway notifications.
func (a *App) Notify(_ context.Context, n client.Notification) {
	a.printf("[%s] %s\n", n.Level, n.Message)
}

// Navigate switches the current screen shown in the prompt.
func (a *App) Navigate(path string, _ bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.screen = path
}

func (a *App) currentScreen() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

func (a *App) getStatus() string {
	s := a.currentScreen()
	if st := a.session.Snapshot(); st.IsAuthenticated() {
		s = st.User.Email + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
