// Package credentials locates the Google Cloud credential used by the OCR
// workflow and exports it through GOOGLE_APPLICATION_CREDENTIALS.
package credentials

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	// EnvCredentials is the variable Google client libraries read.
	EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"

	DefaultSecretEnv       = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	DefaultSecretPath      = "gcloud-key.json"
	DefaultCredentialsFile = "ocr-credentials.json"
)

var ErrNoCredentials = errors.New("no OCR credentials found")

// Source tells where the credential came from.
type Source string

const (
	SourceNone   Source = "none"
	SourceSecret Source = "secret"
	SourceFile   Source = "file"
)

// State is the outcome of a resolution.
type State struct {
	Source Source `json:"source"`
	Path   string `json:"path,omitempty"`
}

// Resolver resolves the credential once and remembers the result.
type Resolver struct {
	// SecretEnv names the variable holding the injected credential JSON.
	SecretEnv string
	// SecretPath is where an injected credential is written.
	SecretPath string
	// CredentialsFile is the well-known credential file used when no secret is injected.
	CredentialsFile string

	lookupEnv func(string) (string, bool)
	setenv    func(string, string) error

	once  sync.Once
	state State
	err   error
}

// NewResolver returns a resolver configured from NUMERADOR_SECRET_FILE and
// NUMERADOR_CREDENTIALS_FILE, falling back to the defaults.
func NewResolver() *Resolver {
	r := &Resolver{
		SecretEnv:       DefaultSecretEnv,
		SecretPath:      DefaultSecretPath,
		CredentialsFile: DefaultCredentialsFile,
	}
	if p := os.Getenv("NUMERADOR_SECRET_FILE"); p != "" {
		r.SecretPath = p
	}
	if p := os.Getenv("NUMERADOR_CREDENTIALS_FILE"); p != "" {
		r.CredentialsFile = p
	}
	return r
}

// Resolve runs the resolution on first call. Later calls return the same
// state and error without touching the filesystem or environment again.
func (r *Resolver) Resolve() (State, error) {
	r.once.Do(func() {
		r.state, r.err = r.resolve()
		if r.err != nil {
			slog.Warn("OCR credentials unavailable; OCR workflow disabled", "err", r.err)
			return
		}
		slog.Info("OCR credentials resolved", "source", r.state.Source, "path", r.state.Path)
	})
	return r.state, r.err
}

func (r *Resolver) resolve() (State, error) {
	lookup := r.lookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	setenv := r.setenv
	if setenv == nil {
		setenv = os.Setenv
	}

	if secret, ok := lookup(r.SecretEnv); ok && secret != "" {
		path, err := writeSecret(r.SecretPath, secret)
		if err != nil {
			return State{Source: SourceNone}, err
		}
		if err := setenv(EnvCredentials, path); err != nil {
			return State{Source: SourceNone}, fmt.Errorf("failed to set %s: %w", EnvCredentials, err)
		}
		return State{Source: SourceSecret, Path: path}, nil
	}

	if r.CredentialsFile != "" {
		info, err := os.Stat(r.CredentialsFile)
		if err == nil && info.Mode().IsRegular() {
			path, err := filepath.Abs(r.CredentialsFile)
			if err != nil {
				return State{Source: SourceNone}, fmt.Errorf("failed to resolve credentials path: %w", err)
			}
			if err := setenv(EnvCredentials, path); err != nil {
				return State{Source: SourceNone}, fmt.Errorf("failed to set %s: %w", EnvCredentials, err)
			}
			return State{Source: SourceFile, Path: path}, nil
		}
	}

	return State{Source: SourceNone}, fmt.Errorf("%w: set %s or provide %s", ErrNoCredentials, r.SecretEnv, r.CredentialsFile)
}

// writeSecret stores the secret verbatim, readable by the owner only. The
// file is renamed into place so readers never see a partial key.
func writeSecret(path, secret string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret path: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".gcloud-key-*")
	if err != nil {
		return "", fmt.Errorf("failed to create secret file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to restrict secret file: %w", err)
	}
	if _, err := tmp.WriteString(secret); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write secret file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write secret file: %w", err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		return "", fmt.Errorf("failed to install secret file: %w", err)
	}
	return abs, nil
}
