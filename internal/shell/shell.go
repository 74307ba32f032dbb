// Package shell boots the marketplace simulator and runs its
// line-by-line command loop. Everything is constructed here once and
// passed down explicitly: repositories, session, event bus, registry.
package shell

import (
	"errors"
	"fmt"
	"io"

	"github.com/shashiranjanraj/bazaar/app/commands"
	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/app/session"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/command"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/prompt"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

// App is the fully wired process: one instance of every component.
type App struct {
	Users    *repository.Repository[models.User]
	Products *repository.Repository[models.Product]
	Orders   *repository.Repository[models.Order]
	Reviews  *repository.Repository[models.Review]

	Session  *session.Session
	Bus      *event.Bus
	Registry *command.Registry
	Store    *services.DataStore

	in  *prompt.Line
	out io.Writer
}

// NewApp wires every component against the given terminal streams.
func NewApp(in io.Reader, out io.Writer) *App {
	a := &App{
		Users:    repository.New(func(u models.User) string { return u.ID }),
		Products: repository.New(func(p models.Product) string { return p.ID }),
		Orders:   repository.New(func(o models.Order) string { return o.ID }),
		Reviews:  repository.New(func(r models.Review) string { return r.ID }),
		Session:  session.New(),
		Bus:      event.NewBus(),
		Registry: command.NewRegistry(),
		in:       prompt.NewLine(in, out),
		out:      out,
	}

	lifecycle := services.NewLifecycle(a.Products, a.Orders, a.Bus)
	accounts := services.NewAccounts(a.Users)
	reviews := services.NewReviews(a.Orders, a.Reviews)
	disk := storage.NewLocal(config.DataDir())
	a.Store = services.NewDataStore(a.Users, a.Products, a.Orders, a.Reviews, disk, config.SnapshotFile())

	a.subscribe()

	// Registration order matters: the dispatcher prefers the last
	// candidate whose role set names the session's exact role, so the
	// buyer-facing verbs go first and role overrides follow.
	commands.NewSystem(accounts, a.Store, a.Session, a.Registry, a.in, out).Register(a.Registry)
	commands.NewBuyer(a.Products, a.Orders, a.Session, lifecycle, reviews, out).Register(a.Registry)
	commands.NewSeller(a.Products, a.Orders, a.Session, lifecycle, a.in, out).Register(a.Registry)
	commands.NewAdmin(a.Users, a.Products, a.Orders, a.Reviews, accounts, out).Register(a.Registry)

	return a
}

// subscribe attaches the event consumers: a terminal notice for order
// updates and an audit line for every transition.
func (a *App) subscribe() {
	a.Bus.Subscribe(events.KindOrderStatusChanged, func(e event.Event) {
		osc := e.(events.OrderStatusChanged)
		fmt.Fprintf(a.out, "[notice] order %s is now %s\n", osc.Order.ID, osc.To)
	})
	a.Bus.Subscribe(events.KindOrderStatusChanged, func(e event.Event) {
		osc := e.(events.OrderStatusChanged)
		logger.Info("order status changed", "order", osc.Order.ID, "from", osc.From, "to", osc.To)
	})
	a.Bus.Subscribe(events.KindProductStatusChanged, func(e event.Event) {
		psc := e.(events.ProductStatusChanged)
		logger.Info("product status changed", "product", psc.Product.ID, "from", psc.From, "to", psc.To)
	})
}

// Seed fills the repositories with the demo dataset regardless of what
// is already in them.
func (a *App) Seed() error {
	return services.SeedDemo(a.Users, a.Products)
}

// Bootstrap loads the snapshot if one exists, otherwise seeds demo data
// when enabled. A broken snapshot degrades to a fresh in-memory state.
func (a *App) Bootstrap() {
	if a.Store.Exists() {
		if err := a.Store.Load(); err != nil {
			logger.Warn("snapshot load failed, starting fresh", "error", err)
		}
	}
	if a.Users.Count() == 0 && config.SeedDemo() {
		if err := services.SeedDemo(a.Users, a.Products); err != nil {
			logger.Error("demo seed failed", "error", err)
			return
		}
		fmt.Fprintln(a.out, "demo accounts ready: admin / buyer1 / seller1, password 123456")
	}
}

// Run prints the welcome banner and processes commands until exit or
// end of input. Every command failure is reported as a single line and
// the loop continues.
func (a *App) Run() error {
	fmt.Fprintln(a.out, "bazaar - terminal marketplace")
	fmt.Fprintln(a.out, "type 'help' for commands, 'register' or 'login' to start, 'exit' to quit")

	for {
		fmt.Fprintf(a.out, "%s > ", a.promptLabel())
		line, err := a.in.Next()
		if err != nil {
			if errors.Is(err, prompt.ErrNoInput) {
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}

		err = a.Registry.Execute(commands.ActorOf(a.Session), line)
		if errors.Is(err, command.ErrExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}

func (a *App) promptLabel() string {
	if u, ok := a.Session.Current(); ok {
		return fmt.Sprintf("[%s@%s]", u.Username, u.Role)
	}
	return "[guest]"
}
