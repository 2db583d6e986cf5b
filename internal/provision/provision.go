// Package provision implements the operator command that creates company
// accounts. Company accounts cannot be created over the HTTP API.
package provision

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/jobboard/internal/flagx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// CompanyProvisioner creates company accounts.
type CompanyProvisioner interface {
	ProvisionCompany(ctx context.Context, name, email, password string) (*models.User, error)
}

// Options are the command's own flags.
type Options struct {
	Name     string
	Email    string
	Password string
}

// ParseArgs reads -name, -email and -password from args. Flags owned by the
// server config (-d, -c, ...) are ignored.
func ParseArgs(args []string) (Options, error) {
	var o Options
	fs := flag.NewFlagSet("provision", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.Name, "name", "", "company display name")
	fs.StringVar(&o.Email, "email", "", "company login email")
	fs.StringVar(&o.Password, "password", "", "company password (prompted when empty)")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-name", "-email", "-password"})); err != nil {
		return o, err
	}
	return o, nil
}

// Run prompts for missing values and creates the company account.
func Run(ctx context.Context, p CompanyProvisioner, o Options, stdinFd int, in io.Reader, out io.Writer) (*models.User, error) {
	reader := bufio.NewReader(in)

	var err error
	if o.Name == "" {
		if o.Name, err = GetSimpleText(reader, "Company name", out); err != nil {
			return nil, err
		}
	}
	if o.Email == "" {
		if o.Email, err = GetSimpleText(reader, "Company email", out); err != nil {
			return nil, err
		}
	}
	if o.Password == "" {
		if o.Password, err = GetPassword(stdinFd, reader, out); err != nil {
			return nil, err
		}
	}

	user, err := p.ProvisionCompany(ctx, o.Name, o.Email, o.Password)
	if err != nil {
		return nil, fmt.Errorf("provision company: %w", err)
	}

	fmt.Fprintf(out, "Company account created: id=%s email=%s\n", user.ID, user.Email)
	return user, nil
}
