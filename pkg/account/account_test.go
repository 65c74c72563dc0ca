package account

import "testing"

func TestStaticCredentials(t *testing.T) {
	var creds Credentials = StaticCredentials{}
	if creds.User() != "admin" {
		t.Errorf("default user = %q", creds.User())
	}
	if !creds.Ready() || creds.AuthType() != "test" {
		t.Errorf("Ready=%v AuthType=%q", creds.Ready(), creds.AuthType())
	}

	named := StaticCredentials{Username: "alice"}
	if named.User() != "alice" {
		t.Errorf("named user = %q", named.User())
	}
}

func TestAccount(t *testing.T) {
	a := New("http://localhost/owncloud", "bob")
	if a.User() != "bob" {
		t.Errorf("User = %q", a.User())
	}
	if a.URL != "http://localhost/owncloud" {
		t.Errorf("URL = %q", a.URL)
	}
}
