package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jrsteele09/neuroguard/apimodel"
	"github.com/jrsteele09/neuroguard/routes"
	"github.com/jrsteele09/neuroguard/token"
)

const passwordEnvVar = "NEUROGUARD_PASSWORD"

func (a *App) password(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if pw := os.Getenv(passwordEnvVar); pw != "" {
		return pw, nil
	}
	return a.promptSecret("Password: ")
}

func (a *App) loginCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	pw := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.enter(routes.ScreenLogin) {
		return nil
	}
	if *email == "" {
		return errors.New("usage: neuroguard login --email=EMAIL [--password=PWD]")
	}
	secret, err := a.password(*pw)
	if err != nil {
		return err
	}

	user, err := a.controller.Login(ctx, *email, secret)
	if err != nil {
		return err
	}
	a.banner()
	fmt.Fprintf(a.out, "Welcome back, %s.\n", displayName(user))
	a.land(false)
	return nil
}

func (a *App) registerCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "full name")
	pw := fs.String("password", "", "account password (min 8 characters)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.enter(routes.ScreenRegister) {
		return nil
	}
	if *email == "" || *name == "" {
		return errors.New("usage: neuroguard register --email=EMAIL --name=NAME [--password=PWD]")
	}
	secret, err := a.password(*pw)
	if err != nil {
		return err
	}

	user, err := a.controller.Register(ctx, apimodel.RegisterRequest{Email: *email, Password: secret, FullName: *name})
	if err != nil {
		return err
	}
	a.banner()
	fmt.Fprintf(a.out, "Account created. Welcome, %s.\n", displayName(user))
	a.land(true)
	return nil
}

// land moves to the post-login screen and tells the user what to do there.
func (a *App) land(newUser bool) {
	target := a.navigator.Navigate(routes.LandingAfterLogin(newUser)).Target
	if target == routes.ScreenProfileSetup {
		fmt.Fprintln(a.out, "Next: set your personal defaults with `neuroguard profile set --age=N --hbp=0|1`.")
		return
	}
	fmt.Fprintln(a.out, "Run `neuroguard dashboard` to see your recent assessments.")
}

func (a *App) logoutCommand(ctx context.Context) error {
	if err := a.controller.Logout(ctx); err != nil {
		return err
	}
	a.navigator.Navigate(routes.ScreenLogin)
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) statusCommand() error {
	user := a.controller.Identity()
	if user == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "Signed in as %s <%s>\n", displayName(user), user.Email)

	raw, ok := a.store.Token()
	if !ok {
		return nil
	}
	claims, err := token.Describe(raw)
	if err != nil {
		fmt.Fprintln(a.out, "Token: opaque")
		return nil
	}
	if claims.ExpiresAt != nil {
		fmt.Fprintf(a.out, "Token expires: %s (in %s)\n",
			claims.ExpiresAt.Local().Format(time.RFC1123),
			time.Until(*claims.ExpiresAt).Round(time.Minute))
	}
	return nil
}

func displayName(u *apimodel.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
