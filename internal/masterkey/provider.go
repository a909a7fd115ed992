package masterkey

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	kerrors "github.com/CamreshJames/fe-email-client/internal/errors"

	"golang.org/x/term"
)

// EnvVar is read by Env when no variable name is given.
const EnvVar = "TATUA_MASTER_PASSWORD"

// Purpose tells a provider why the password is needed.
type Purpose int

const (
	// PurposeEncrypt asks for a new master password during migration.
	// An empty answer means "generate one for me".
	PurposeEncrypt Purpose = iota

	// PurposeDecrypt asks for the existing master password.
	// An empty answer is an error.
	PurposeDecrypt
)

func (p Purpose) String() string {
	switch p {
	case PurposeEncrypt:
		return "encrypt"
	case PurposeDecrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("purpose(%d)", int(p))
	}
}

// ErrSkip is returned by a provider that has nothing to offer, letting a
// Chain fall through to the next one.
var ErrSkip = errors.New("provider has no master password")

// Provider supplies the master password.
type Provider interface {
	MasterPassword(ctx context.Context, purpose Purpose) ([]byte, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, purpose Purpose) ([]byte, error)

func (f ProviderFunc) MasterPassword(ctx context.Context, purpose Purpose) ([]byte, error) {
	return f(ctx, purpose)
}

// finish applies the purpose rules to a raw answer.
func finish(password []byte, purpose Purpose) ([]byte, error) {
	if len(password) == 0 && purpose == PurposeDecrypt {
		return nil, kerrors.ErrNoPassword
	}
	return password, nil
}

// Static always answers with the same password. Used by tests and callers
// that already hold the secret.
type Static []byte

func (s Static) MasterPassword(ctx context.Context, purpose Purpose) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return finish(append([]byte(nil), s...), purpose)
}

// Env reads the password from an environment variable. An unset variable
// yields ErrSkip.
type Env struct {
	Name string
}

func (e Env) MasterPassword(ctx context.Context, purpose Purpose) ([]byte, error) {
	name := e.Name
	if name == "" {
		name = EnvVar
	}
	value, ok := os.LookupEnv(name)
	if !ok {
		return nil, ErrSkip
	}
	return finish([]byte(value), purpose)
}

// Terminal prompts on a terminal without echoing input. Leading and trailing
// whitespace of the answer is stripped.
type Terminal struct {
	// File defaults to os.Stdin.
	File *os.File
	// Out receives the prompt. Defaults to os.Stderr.
	Out io.Writer
}

func (t Terminal) MasterPassword(ctx context.Context, purpose Purpose) ([]byte, error) {
	in := t.File
	if in == nil {
		in = os.Stdin
	}
	out := t.Out
	if out == nil {
		out = os.Stderr
	}

	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, kerrors.ErrNotTerminal
	}

	fmt.Fprint(out, prompt(purpose))
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read master password: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return finish(bytes.TrimSpace(password), purpose)
}

// Reader takes the first line of R, for piped input. Leading and trailing
// whitespace is stripped, as with the terminal prompt.
type Reader struct {
	R io.Reader

	once sync.Once
	line []byte
	err  error
}

func (r *Reader) MasterPassword(ctx context.Context, purpose Purpose) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.once.Do(func() {
		line, err := bufio.NewReader(r.R).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			r.err = fmt.Errorf("failed to read master password: %w", err)
			return
		}
		if err != nil && line == "" {
			r.err = ErrSkip
			return
		}
		r.line = []byte(strings.TrimSpace(line))
	})
	if r.err != nil {
		return nil, r.err
	}
	return finish(append([]byte(nil), r.line...), purpose)
}

// Chain asks each provider in turn. A provider returning ErrSkip or
// ErrNotTerminal passes to the next; any other outcome is final.
type Chain []Provider

func (c Chain) MasterPassword(ctx context.Context, purpose Purpose) ([]byte, error) {
	for _, p := range c {
		password, err := p.MasterPassword(ctx, purpose)
		if errors.Is(err, ErrSkip) || errors.Is(err, kerrors.ErrNotTerminal) {
			continue
		}
		return password, err
	}
	if purpose == PurposeEncrypt {
		return nil, nil
	}
	return nil, kerrors.ErrNoPassword
}

// Default is the CLI chain: environment, then terminal, then a piped stdin line.
func Default() Provider {
	return Chain{
		Env{},
		Terminal{},
		&Reader{R: os.Stdin},
	}
}

func prompt(purpose Purpose) string {
	if purpose == PurposeEncrypt {
		return "Set a master password (leave empty to generate one): "
	}
	return "Master password: "
}
