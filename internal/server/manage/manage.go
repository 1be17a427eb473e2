// Package manage implements the administrative command line: creating
// users and superusers, deactivating accounts and changing passwords.
//
// Usage:
//
//	cli [config flags] <command> [-email E] [-name N] [-noinput]
//
// Values not given as flags are prompted for, following models.AuthFields.
// Passwords are read without echo; with -noinput they come from the
// PROFILES_PASSWORD environment variable instead.
package manage

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/profiles/internal/common"
	"github.com/dmitrijs2005/profiles/internal/server/models"
)

// Commands understood by Run.
const (
	CmdCreateUser      = "createuser"
	CmdCreateSuperuser = "createsuperuser"
	CmdDeactivate      = "deactivate"
	CmdChangePassword  = "changepassword"
)

var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrPasswordsMismatch = errors.New("passwords do not match")
)

// Accounts is the slice of the account service the commands use.
type Accounts interface {
	CreateUser(ctx context.Context, email, name, password string) (*models.Account, error)
	CreateSuperuser(ctx context.Context, email, name, password string) (*models.Account, error)
	Deactivate(ctx context.Context, email string) error
	SetPassword(ctx context.Context, email, password string) error
}

type Command struct {
	accounts Accounts
	fields   models.AuthFields
	in       *bufio.Reader
	out      io.Writer
	getenv   func(string) string
}

// New returns a Command reading answers from in and writing prompts to out.
func New(accounts Accounts, in io.Reader, out io.Writer) *Command {
	return &Command{
		accounts: accounts,
		fields:   models.DefaultAuthFields,
		in:       bufio.NewReader(in),
		out:      out,
		getenv:   os.Getenv,
	}
}

type options struct {
	values  map[string]string
	noInput bool
}

// Run executes the command named by args[0] with the remaining flags.
func (c *Command) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.usage()
		return fmt.Errorf("%w: none given", ErrUnknownCommand)
	}

	name := args[0]
	switch name {
	case CmdCreateUser, CmdCreateSuperuser, CmdDeactivate, CmdChangePassword:
	default:
		c.usage()
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	opts, err := c.parse(name, args[1:])
	if err != nil {
		return err
	}

	switch name {
	case CmdCreateUser:
		return c.createUser(ctx, opts, false)
	case CmdCreateSuperuser:
		return c.createUser(ctx, opts, true)
	case CmdDeactivate:
		return c.deactivate(ctx, opts)
	default:
		return c.changePassword(ctx, opts)
	}
}

func (c *Command) usage() {
	fmt.Fprintln(c.out, "Available commands: createuser, createsuperuser, deactivate, changepassword")
}

func (c *Command) parse(name string, args []string) (*options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)

	email := fs.String(models.FieldEmail, "", "email address")
	displayName := fs.String(models.FieldName, "", "display name")
	noInput := fs.Bool("noinput", false, "do not prompt; read the password from "+common.PasswordEnvVar)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &options{
		values: map[string]string{
			models.FieldEmail: *email,
			models.FieldName:  *displayName,
		},
		noInput: *noInput,
	}, nil
}

// value returns the flag value of field or prompts for it.
func (c *Command) value(opts *options, field string) (string, error) {
	if v := opts.values[field]; v != "" || opts.noInput {
		return v, nil
	}
	return getSimpleText(c.in, promptLabel(field), c.out)
}

func promptLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

// password returns the new password. Interactive input is asked twice.
func (c *Command) password(opts *options) (string, error) {
	if opts.noInput {
		return c.getenv(common.PasswordEnvVar), nil
	}

	pw, err := getPassword("Password", c.out)
	if err != nil {
		return "", err
	}
	again, err := getPassword("Password (again)", c.out)
	if err != nil {
		return "", err
	}
	if pw != again {
		return "", ErrPasswordsMismatch
	}
	return pw, nil
}

func (c *Command) createUser(ctx context.Context, opts *options, superuser bool) error {
	values := make(map[string]string)
	for _, field := range c.fields.PromptFields() {
		v, err := c.value(opts, field)
		if err != nil {
			return err
		}
		values[field] = v
	}

	pw, err := c.password(opts)
	if err != nil {
		return err
	}

	email, name := values[models.FieldEmail], values[models.FieldName]
	if superuser {
		if _, err := c.accounts.CreateSuperuser(ctx, email, name, pw); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Superuser created successfully.")
		return nil
	}

	if _, err := c.accounts.CreateUser(ctx, email, name, pw); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "User created successfully.")
	return nil
}

func (c *Command) deactivate(ctx context.Context, opts *options) error {
	email, err := c.value(opts, c.fields.IdentityField)
	if err != nil {
		return err
	}
	if err := c.accounts.Deactivate(ctx, email); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Account %s deactivated.\n", email)
	return nil
}

func (c *Command) changePassword(ctx context.Context, opts *options) error {
	email, err := c.value(opts, c.fields.IdentityField)
	if err != nil {
		return err
	}
	pw, err := c.password(opts)
	if err != nil {
		return err
	}
	if err := c.accounts.SetPassword(ctx, email, pw); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Password changed successfully for %s.\n", email)
	return nil
}
