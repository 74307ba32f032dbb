package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/app/session"
	"github.com/shashiranjanraj/bazaar/pkg/command"
	"github.com/shashiranjanraj/bazaar/pkg/prompt"
	"github.com/shashiranjanraj/bazaar/pkg/validate"
)

// System handles the unrestricted commands: register, login, logout,
// help, save, load, exit.
type System struct {
	accounts *services.Accounts
	store    *services.DataStore
	sess     *session.Session
	reg      *command.Registry
	prompt   prompt.Prompter
	out      io.Writer
}

func NewSystem(accounts *services.Accounts, store *services.DataStore, sess *session.Session, reg *command.Registry, p prompt.Prompter, out io.Writer) *System {
	return &System{accounts: accounts, store: store, sess: sess, reg: reg, prompt: p, out: out}
}

func (c *System) Register(reg *command.Registry) {
	reg.Register("register", "create a new account", c.register)
	reg.Register("login", "log in to an account", c.login)
	reg.Register("logout", "log out", c.logout)
	reg.Register("help", "show the commands you can run", c.help)
	reg.Register("save", "snapshot all data to disk", c.save)
	reg.Register("load", "restore data from the last snapshot", c.load)
	reg.Register("exit", "quit the program", c.exit)
}

// registerInput collects the interactive register answers for validation.
type registerInput struct {
	Username             string `json:"username" validate:"required,alpha_dash,min=3,max=30"`
	Password             string `json:"password" validate:"required,min=6,max=64,confirmed"`
	PasswordConfirmation string `json:"-"`
	Role                 string `json:"role" validate:"required,in=1 2"`
	Email                string `json:"email" validate:"nullable,email"`
	Phone                string `json:"phone" validate:"nullable,numeric,min=7,max=15"`
}

func (c *System) register(args []string) error {
	if c.sess.IsAuthenticated() {
		return errors.New("log out before registering a new account")
	}

	var in registerInput
	var err error
	if in.Username, err = c.prompt.Ask("username"); err != nil {
		return err
	}
	if in.Password, err = c.prompt.Ask("password"); err != nil {
		return err
	}
	if in.PasswordConfirmation, err = c.prompt.Ask("confirm password"); err != nil {
		return err
	}
	if in.Role, err = c.prompt.Ask("role (1 buyer / 2 seller)"); err != nil {
		return err
	}
	if in.Email, err = c.prompt.Ask("email (optional)"); err != nil {
		return err
	}
	if in.Phone, err = c.prompt.Ask("phone (optional)"); err != nil {
		return err
	}

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		for _, field := range []string{"username", "password", "role", "email", "phone"} {
			if msg, ok := errs[field]; ok {
				return errors.New(msg)
			}
		}
	}

	role := models.RoleBuyer
	if in.Role == "2" {
		role = models.RoleSeller
	}

	u, err := c.accounts.Register(in.Username, in.Password, role, in.Email, in.Phone)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "registered %s (%s), log in with 'login'\n", u.Username, u.ID)
	return nil
}

func (c *System) login(args []string) error {
	if c.sess.IsAuthenticated() {
		return errors.New("already logged in, log out first")
	}

	username, err := c.prompt.Ask("username")
	if err != nil {
		return err
	}
	password, err := c.prompt.Ask("password")
	if err != nil {
		return err
	}

	u, err := c.accounts.Authenticate(username, password)
	if err != nil {
		return err
	}
	c.sess.Login(u)
	fmt.Fprintf(c.out, "welcome, %s (%s), type 'help' for commands\n", u.Username, u.Role)
	return nil
}

func (c *System) logout(args []string) error {
	u, ok := c.sess.Current()
	if !ok {
		return errors.New("not logged in")
	}
	c.sess.Logout()
	fmt.Fprintf(c.out, "goodbye, %s\n", u.Username)
	return nil
}

var (
	systemVerbs = map[string]bool{"register": true, "login": true, "logout": true, "help": true, "save": true, "load": true, "exit": true}
	roleVerbs   = map[models.Role]map[string]bool{
		models.RoleBuyer:  {"search": true, "product": true, "order": true, "review": true},
		models.RoleSeller: {"search": true, "product": true, "order": true},
		models.RoleAdmin:  {"search": true, "product": true, "order": true, "review": true, "user": true},
	}
)

func (c *System) help(args []string) error {
	available := c.reg.Available(ActorOf(c.sess))

	printGroup := func(title string, verbs map[string]bool) {
		var names []string
		for name := range available {
			if verbs[name] {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			return
		}
		sort.Strings(names)
		fmt.Fprintf(c.out, "\n%s:\n", title)
		for _, name := range names {
			fmt.Fprintf(c.out, "  %-12s %s\n", name, available[name])
		}
	}

	printGroup("general", systemVerbs)
	if u, ok := c.sess.Current(); ok {
		printGroup(strings.ToLower(string(u.Role))+" commands", roleVerbs[u.Role])
	}
	return nil
}

func (c *System) save(args []string) error {
	if err := c.store.Save(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "data saved")
	return nil
}

func (c *System) load(args []string) error {
	if err := c.store.Load(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "data loaded")
	return nil
}

func (c *System) exit(args []string) error {
	answer, err := c.prompt.Ask("save data? (y/n)")
	if err == nil && (answer == "y" || answer == "yes") {
		if err := c.store.Save(); err != nil {
			fmt.Fprintf(c.out, "save failed: %v\n", err)
		} else {
			fmt.Fprintln(c.out, "data saved")
		}
	}
	fmt.Fprintln(c.out, "bye")
	return command.ErrExit
}
