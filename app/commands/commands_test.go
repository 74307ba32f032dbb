package commands_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/commands"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/app/session"
	"github.com/shashiranjanraj/bazaar/pkg/command"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/prompt"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
	"github.com/shopspring/decimal"
)

// env builds the full command surface the way the shell wires it,
// with scripted prompt answers instead of a terminal.
type env struct {
	users    *repository.Repository[models.User]
	products *repository.Repository[models.Product]
	orders   *repository.Repository[models.Order]
	reviews  *repository.Repository[models.Review]

	sess      *session.Session
	reg       *command.Registry
	accounts  *services.Accounts
	lifecycle *services.Lifecycle
	out       *bytes.Buffer
}

func newEnv(t *testing.T, answers ...string) *env {
	t.Helper()
	e := &env{
		users:    repository.New(func(u models.User) string { return u.ID }),
		products: repository.New(func(p models.Product) string { return p.ID }),
		orders:   repository.New(func(o models.Order) string { return o.ID }),
		reviews:  repository.New(func(r models.Review) string { return r.ID }),
		sess:     session.New(),
		reg:      command.NewRegistry(),
		out:      &bytes.Buffer{},
	}
	e.accounts = services.NewAccounts(e.users)
	e.lifecycle = services.NewLifecycle(e.products, e.orders, event.NewBus())
	reviewSvc := services.NewReviews(e.orders, e.reviews)
	store := services.NewDataStore(e.users, e.products, e.orders, e.reviews, storage.NewLocal(t.TempDir()), "bazaar.json")
	script := prompt.NewScript(answers...)

	// same registration order as the shell
	commands.NewSystem(e.accounts, store, e.sess, e.reg, script, e.out).Register(e.reg)
	commands.NewBuyer(e.products, e.orders, e.sess, e.lifecycle, reviewSvc, e.out).Register(e.reg)
	commands.NewSeller(e.products, e.orders, e.sess, e.lifecycle, script, e.out).Register(e.reg)
	commands.NewAdmin(e.users, e.products, e.orders, e.reviews, e.accounts, e.out).Register(e.reg)
	return e
}

func (e *env) run(line string) error {
	return e.reg.Execute(commands.ActorOf(e.sess), line)
}

func (e *env) loginAs(t *testing.T, username, password string, role models.Role) models.User {
	t.Helper()
	u, err := e.accounts.Register(username, password, role, "", "")
	require.NoError(t, err)
	e.sess.Login(u)
	return u
}

func TestRegisterCommand(t *testing.T) {
	e := newEnv(t, "alice", "123456", "123456", "1", "alice@campus.edu", "5551234")

	require.NoError(t, e.run("register"))

	assert.Contains(t, e.out.String(), "registered alice")
	assert.Equal(t, 1, e.users.Count())
	u, err := e.accounts.Authenticate("alice", "123456")
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer, u.Role)
}

func TestRegisterCommandValidation(t *testing.T) {
	cases := []struct {
		name    string
		answers []string
	}{
		{"password mismatch", []string{"alice", "123456", "different", "1", "", ""}},
		{"bad role choice", []string{"alice", "123456", "123456", "9", "", ""}},
		{"short username", []string{"al", "123456", "123456", "1", "", ""}},
		{"bad email", []string{"alice", "123456", "123456", "1", "not-an-email", ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t, tc.answers...)
			assert.Error(t, e.run("register"))
			assert.Equal(t, 0, e.users.Count())
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	e := newEnv(t, "alice", "123456")
	_, err := e.accounts.Register("alice", "123456", models.RoleBuyer, "", "")
	require.NoError(t, err)

	require.NoError(t, e.run("login"))
	assert.True(t, e.sess.IsAuthenticated())
	assert.Contains(t, e.out.String(), "welcome, alice")

	require.NoError(t, e.run("logout"))
	assert.False(t, e.sess.IsAuthenticated())
}

func TestLoginBadCredentials(t *testing.T) {
	e := newEnv(t, "alice", "wrong")
	_, err := e.accounts.Register("alice", "123456", models.RoleBuyer, "", "")
	require.NoError(t, err)

	err = e.run("login")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.False(t, e.sess.IsAuthenticated())
}

func TestProductVerbResolvesPerRole(t *testing.T) {
	e := newEnv(t)
	seller := e.loginAs(t, "seller1", "123456", models.RoleSeller)
	p, err := e.lifecycle.AddProduct(seller, "Desk lamp", "LED", "household", decimal.NewFromInt(80))
	require.NoError(t, err)

	// seller resolves to the seller handler, so "detail" is unknown
	err = e.run("product detail " + p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown product action")

	require.NoError(t, e.run("product my"))
	assert.Contains(t, e.out.String(), "Desk lamp")

	// a buyer gets the shared lookup handler for the same verb
	e.loginAs(t, "buyer1", "123456", models.RoleBuyer)
	e.out.Reset()
	require.NoError(t, e.run("product detail "+p.ID))
	assert.Contains(t, e.out.String(), "Desk lamp")
	assert.Contains(t, e.out.String(), p.ID)
}

func TestCommandsRequireLogin(t *testing.T) {
	e := newEnv(t)
	for _, line := range []string{"search", "product my", "order my", "user list"} {
		err := e.run(line)
		assert.ErrorIs(t, err, command.ErrNotAuthenticated, "line %q", line)
	}
}

func TestBannedUserIsLockedOut(t *testing.T) {
	e := newEnv(t)
	u := e.loginAs(t, "alice", "123456", models.RoleBuyer)
	_, err := e.accounts.Ban(u.ID)
	require.NoError(t, err)
	u.Banned = true
	e.sess.Login(u)

	err = e.run("search")
	assert.ErrorIs(t, err, command.ErrBanned)

	// unrestricted commands keep working so the user can log out
	assert.NoError(t, e.run("logout"))
}

func TestSearchFilters(t *testing.T) {
	e := newEnv(t)
	seller := e.loginAs(t, "seller1", "123456", models.RoleSeller)
	_, err := e.lifecycle.AddProduct(seller, "Java textbook", "CS course book", "books", decimal.NewFromInt(50))
	require.NoError(t, err)
	_, err = e.lifecycle.AddProduct(seller, "Bicycle", "campus commuter", "transport", decimal.NewFromInt(200))
	require.NoError(t, err)

	e.loginAs(t, "buyer1", "123456", models.RoleBuyer)

	e.out.Reset()
	require.NoError(t, e.run("search book"))
	assert.Contains(t, e.out.String(), "Java textbook")
	assert.NotContains(t, e.out.String(), "Bicycle")

	e.out.Reset()
	require.NoError(t, e.run("search c 100 300"))
	assert.Contains(t, e.out.String(), "Bicycle")
	assert.NotContains(t, e.out.String(), "Java textbook")

	err = e.run("search lamp ten")
	assert.ErrorIs(t, err, services.ErrInvalidArgument)
}

func TestAdminUserManagement(t *testing.T) {
	e := newEnv(t)
	buyer := e.loginAs(t, "alice", "123456", models.RoleBuyer)

	admin := models.User{ID: "USR-admin", Username: "admin", Role: models.RoleAdmin}
	require.NoError(t, e.users.Save(admin))
	e.sess.Login(admin)

	e.out.Reset()
	require.NoError(t, e.run("user list"))
	assert.Contains(t, e.out.String(), "alice")
	assert.Contains(t, e.out.String(), "admin")

	require.NoError(t, e.run("user ban "+buyer.ID))
	stored, _ := e.users.FindByID(buyer.ID)
	assert.True(t, stored.Banned)

	require.NoError(t, e.run("user unban "+buyer.ID))
	stored, _ = e.users.FindByID(buyer.ID)
	assert.False(t, stored.Banned)

	err := e.run("user ban " + admin.ID)
	assert.ErrorIs(t, err, services.ErrCannotBanAdmin)
}

func TestAdminSeesEverything(t *testing.T) {
	e := newEnv(t)
	seller := e.loginAs(t, "seller1", "123456", models.RoleSeller)
	p, err := e.lifecycle.AddProduct(seller, "Desk lamp", "LED", "household", decimal.NewFromInt(80))
	require.NoError(t, err)
	buyer := e.loginAs(t, "buyer1", "123456", models.RoleBuyer)
	o, err := e.lifecycle.PlaceOrder(buyer, p.ID)
	require.NoError(t, err)

	admin := models.User{ID: "USR-admin", Username: "admin", Role: models.RoleAdmin}
	require.NoError(t, e.users.Save(admin))
	e.sess.Login(admin)

	e.out.Reset()
	require.NoError(t, e.run("product all"))
	assert.Contains(t, e.out.String(), p.ID)

	e.out.Reset()
	require.NoError(t, e.run("order all"))
	assert.Contains(t, e.out.String(), o.ID)

	e.out.Reset()
	require.NoError(t, e.run("review all"))
	assert.Contains(t, e.out.String(), "no reviews")
}

func TestHelpListsOnlyAvailableCommands(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.run("help"))
	got := e.out.String()
	assert.Contains(t, got, "register")
	assert.Contains(t, got, "login")
	assert.NotContains(t, got, "search")

	e.loginAs(t, "buyer1", "123456", models.RoleBuyer)
	e.out.Reset()
	require.NoError(t, e.run("help"))
	got = e.out.String()
	assert.Contains(t, got, "buyer commands")
	assert.Contains(t, got, "search")
	assert.Contains(t, got, "review")
	assert.NotContains(t, got, "user")
}

func TestExitPromptsForSave(t *testing.T) {
	e := newEnv(t, "n")
	err := e.run("exit")
	assert.True(t, errors.Is(err, command.ErrExit))
	assert.Contains(t, e.out.String(), "bye")
}

// TestMarketplaceScenario walks the whole trade through the command
// surface: list, order, ship, receive, review.
func TestMarketplaceScenario(t *testing.T) {
	e := newEnv(t, "Calculus book", "like new, second semester", "books", "40.00")

	seller, err := e.accounts.Register("seller1", "123456", models.RoleSeller, "", "")
	require.NoError(t, err)
	buyer, err := e.accounts.Register("buyer1", "123456", models.RoleBuyer, "", "")
	require.NoError(t, err)

	// seller lists a product interactively
	e.sess.Login(seller)
	require.NoError(t, e.run("product add"))
	assert.Contains(t, e.out.String(), "listed")
	listed := e.products.FindAll()
	require.Len(t, listed, 1)
	p := listed[0]
	assert.Equal(t, models.ProductAvailable, p.Status)

	// buyer finds it and orders
	e.sess.Login(buyer)
	e.out.Reset()
	require.NoError(t, e.run("search Calculus"))
	assert.Contains(t, e.out.String(), p.ID)

	require.NoError(t, e.run("order create "+p.ID))
	orders := e.orders.FindAll()
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, models.OrderPendingShip, o.Status)
	stored, _ := e.products.FindByID(p.ID)
	assert.Equal(t, models.ProductPending, stored.Status)

	// a second buyer cannot order the reserved product
	other, err := e.accounts.Register("buyer2", "123456", models.RoleBuyer, "", "")
	require.NoError(t, err)
	e.sess.Login(other)
	err = e.run("order create " + p.ID)
	assert.ErrorIs(t, err, services.ErrProductUnavailable)

	// seller ships
	e.sess.Login(seller)
	e.out.Reset()
	require.NoError(t, e.run("order confirm-ship "+o.ID))
	assert.Contains(t, e.out.String(), "shipped")

	// buyer confirms receipt and reviews
	e.sess.Login(buyer)
	e.out.Reset()
	require.NoError(t, e.run("order confirm-receive "+o.ID))
	got, _ := e.orders.FindByID(o.ID)
	assert.Equal(t, models.OrderCompleted, got.Status)
	stored, _ = e.products.FindByID(p.ID)
	assert.Equal(t, models.ProductSold, stored.Status)

	require.NoError(t, e.run("review add "+o.ID+" 5 great seller, fast shipping"))
	reviews := e.reviews.FindAll()
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "great seller, fast shipping", reviews[0].Comment)

	// a second review of the same order is refused
	err = e.run("review add " + o.ID + " 1 changed my mind")
	assert.ErrorIs(t, err, services.ErrDuplicateReview)

	// the product detail now shows the review
	e.out.Reset()
	require.NoError(t, e.run("product detail "+p.ID))
	assert.Contains(t, e.out.String(), "*****")
}
