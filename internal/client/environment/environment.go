// Package environment selects the backend the client talks to.
//
// Each environment maps to a fixed base URL. The base URL used by a process
// is resolved once and cached; a configured override replaces the mapping.
package environment

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Environment identifies a deployment stage.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Default is the environment used when none is configured.
const Default = Development

var baseURLs = map[Environment]string{
	Development: "http://localhost:8080",
	Staging:     "http://192.168.1.236:8080",
	Production:  "http://192.168.1.236:8080",
}

// Parse parses an environment name. Short aliases are accepted.
func Parse(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development", "debug":
		return Development, nil
	case "uat", "stage", "staging":
		return Staging, nil
	case "prod", "production", "release":
		return Production, nil
	default:
		return "", fmt.Errorf("unknown environment %q (want development, staging or production)", s)
	}
}

// BaseURL returns the fixed base URL of the environment.
func (e Environment) BaseURL() string {
	return baseURLs[e]
}

// String implements fmt.Stringer.
func (e Environment) String() string {
	return string(e)
}

// Resolver resolves the base URL once and caches it.
type Resolver struct {
	env      Environment
	override string

	once    sync.Once
	baseURL string
	err     error
}

// NewResolver creates a resolver. A non-empty override wins over env's URL.
func NewResolver(env Environment, override string) *Resolver {
	return &Resolver{env: env, override: strings.TrimSpace(override)}
}

// BaseURL returns the validated base URL. The result of the first call is
// returned by every later call.
func (r *Resolver) BaseURL() (string, error) {
	r.once.Do(func() {
		candidate := r.override
		if candidate == "" {
			candidate = r.env.BaseURL()
		}
		if candidate == "" {
			r.err = fmt.Errorf("environment %q has no base url", r.env)
			return
		}
		if err := validate(candidate); err != nil {
			r.err = fmt.Errorf("invalid base url %q: %w", candidate, err)
			return
		}
		r.baseURL = strings.TrimRight(candidate, "/")
	})
	return r.baseURL, r.err
}

// MustBaseURL is like BaseURL but panics on error.
// An invalid base URL is a configuration defect the process cannot recover from.
func (r *Resolver) MustBaseURL() string {
	u, err := r.BaseURL()
	if err != nil {
		panic(err)
	}
	return u
}

// Environment returns the configured environment.
func (r *Resolver) Environment() Environment {
	return r.env
}

func validate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
