// Package account provides the static account and credential stubs that
// stand in for a real authentication layer in tests.
package account

// Credentials is the minimal credential surface the simulator's
// consumers look at. Implementations here are static: always ready,
// never refreshed.
type Credentials interface {
	User() string
	AuthType() string
	Ready() bool
}

// StaticCredentials is a fixed-identity credential stub.
type StaticCredentials struct {
	Username string
}

func (c StaticCredentials) User() string {
	if c.Username == "" {
		return "admin"
	}
	return c.Username
}

func (c StaticCredentials) AuthType() string { return "test" }

func (c StaticCredentials) Ready() bool { return true }

// Account pairs a server URL with credentials.
type Account struct {
	URL   string
	Creds Credentials
}

// New creates an account with static credentials for username.
func New(url, username string) *Account {
	return &Account{URL: url, Creds: StaticCredentials{Username: username}}
}

// User returns the account's identity.
func (a *Account) User() string { return a.Creds.User() }
