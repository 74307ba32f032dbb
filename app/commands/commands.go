// Package commands wires the terminal command surface. Each role group
// registers its operations into the shared registry at startup; several
// groups deliberately register under the same verb ("product", "order",
// "review", "user") and the dispatcher routes by role.
package commands

import (
	"strings"
	"time"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/session"
	"github.com/shashiranjanraj/bazaar/pkg/command"
)

var (
	roleAdmin  = string(models.RoleAdmin)
	roleBuyer  = string(models.RoleBuyer)
	roleSeller = string(models.RoleSeller)
)

// ActorOf converts the session into the dispatcher's view of it.
func ActorOf(sess *session.Session) command.Actor {
	u, ok := sess.Current()
	if !ok {
		return command.Actor{}
	}
	return command.Actor{Authenticated: true, Role: string(u.Role), Banned: u.Banned}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func stars(rating int) string {
	return strings.Repeat("*", rating) + strings.Repeat("-", 5-rating)
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
