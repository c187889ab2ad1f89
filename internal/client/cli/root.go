package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/moncraft/portal/internal/client/router"
	"github.com/moncraft/portal/internal/client/session"
)

// status renders the prompt suffix: the logged-in username, an admin marker,
// or the resolving state.
func (a *App) status() string {
	s := a.auth.Session()
	switch {
	case s.State == session.Resolving:
		return "(resolving)"
	case s.IsAdmin():
		return fmt.Sprintf("(%s admin)", s.Identity.Username)
	case s.Authenticated():
		return fmt.Sprintf("(%s)", s.Identity.Username)
	default:
		return ""
	}
}

// Root runs the command loop. Commands either navigate to a view ("open
// <route>" and the route-name shortcuts) or perform an action on the current
// data (buy, promote, rmuser, ...). Every view render passes through the
// route guard first.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "MonCraft portal (type 'help' for commands)")

	a.openRoute(ctx, router.RouteHome)

	for {
		fmt.Fprintf(a.out, "portal %s> ", a.status())

		// The same reader feeds both the command loop and the login prompt, so
		// no input is lost between them.
		line, readErr := a.reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				break
			}
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()

		case "open":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: open <route>  (routes: home, login, shop, profile, purchases, admin)")
				continue
			}
			a.openRoute(ctx, router.Route(args[0]))

		case "home", "login", "shop", "profile", "purchases", "admin":
			a.openRoute(ctx, router.Route(cmd))

		case "logout":
			a.Logout(ctx)

		case "buy":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: buy <item-id>")
				continue
			}
			a.buy(ctx, args[0])

		case "promote":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: promote <user-id>")
				continue
			}
			a.toggleAdmin(ctx, args[0])

		case "rmuser":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: rmuser <user-id>")
				continue
			}
			a.deleteUser(ctx, args[0])

		case "activity":
			a.showActivity(ctx)

		case "logs":
			a.showLogs(ctx)

		case "sales":
			a.showAdminPurchases(ctx)

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}

		if readErr != nil {
			break
		}
	}
}

func (a *App) printHelp() {
	if a.auth.Session().IsAdmin() {
		fmt.Fprintln(a.out, "Available commands: open <route>, home, shop, profile, purchases, admin, activity, logs, sales, promote <id>, rmuser <id>, buy <id>, logout, exit")
		return
	}
	if a.auth.Session().Authenticated() {
		fmt.Fprintln(a.out, "Available commands: open <route>, home, shop, profile, purchases, buy <id>, logout, exit")
		return
	}
	fmt.Fprintln(a.out, "Available commands: open <route>, home, shop, login, exit")
}

// openRoute consults the guard and either renders the target, renders a
// neutral pending state, or follows the redirect the guard chose.
func (a *App) openRoute(ctx context.Context, route router.Route) {
	req, ok := router.Known(route)
	if !ok {
		fmt.Fprintln(a.out, "Unknown route:", route)
		return
	}

	switch d := router.Decide(a.auth.Session(), req); d.Action {
	case router.Defer:
		fmt.Fprintln(a.out, "Session still resolving, try again in a moment...")
		return
	case router.Redirect:
		fmt.Fprintf(a.out, "You need %s access; taking you to %s.\n", req, d.Target)
		a.render(ctx, d.Target)
		return
	default:
		a.render(ctx, route)
	}
}

// render dispatches to the view for an already-allowed route.
func (a *App) render(ctx context.Context, route router.Route) {
	switch route {
	case router.RouteHome:
		a.showHome(ctx)
	case router.RouteLogin:
		a.Login(ctx)
	case router.RouteProfile:
		a.showProfile()
	case router.RouteShop:
		a.showShop(ctx)
	case router.RoutePurchases:
		a.showPurchases(ctx)
	case router.RouteAdmin:
		a.showAdmin(ctx)
	}
}
