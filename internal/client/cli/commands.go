package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/talentbridge/internal/client/client"
	"github.com/dmitrijs2005/talentbridge/internal/common"
)

// getPassword is an indirection so tests can avoid the terminal.
var getPassword = GetPassword

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

// Register collects account details and creates the account. The server
// emails a verification code on success.
func (a *App) Register(ctx context.Context) error {
	var req client.RegisterRequest
	var err error

	if req.FullName, err = a.ask("Full name"); err != nil {
		return err
	}
	if req.Email, err = a.ask("Email"); err != nil {
		return err
	}
	if req.Role, err = a.ask("Role (TALENT, HR, MANAGER, ADMIN)"); err != nil {
		return err
	}

	switch strings.ToUpper(req.Role) {
	case "TALENT":
		if req.Headline, err = a.ask("Headline (optional)"); err != nil {
			return err
		}
	case "HR":
		if req.CompanyName, err = a.ask("Company name (optional)"); err != nil {
			return err
		}
	}

	if req.AvatarPath, err = a.ask("Profile picture path (optional)"); err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	id, err := a.api.Register(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s. Check your email for the verification code, then run 'verify'.\n", id)
	return nil
}

func (a *App) Verify(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	code, err := a.ask("Verification code")
	if err != nil {
		return err
	}

	if err := a.api.VerifyOTP(ctx, email, code); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Email verified. You can now log in.")
	return nil
}

func (a *App) Resend(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	if err := a.api.ResendOTP(ctx, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "A new code is on its way.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.api.Login(ctx, email, password)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && errors.Is(err, client.ErrUnauthorized) {
			return errors.New(apiErr.Message)
		}
		return err
	}

	a.setEmail(s.User.Email)
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", s.User.Email, s.User.Role)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	p, err := a.api.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.setEmail("")
		}
		return err
	}
	fmt.Fprintf(a.out, "id: %s\nemail: %s\nrole: %s\n", p.ID, p.Email, p.Role)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.setEmail("")
	if err != nil && !errors.Is(err, client.ErrNotLoggedIn) {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	if err := a.api.ForgotPassword(ctx, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password reset link sent. Check your email.")
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	token, err := a.ask("Reset token (from the emailed link)")
	if err != nil {
		return err
	}

	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.ResetPassword(ctx, token, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password updated. You can now log in.")
	return nil
}
