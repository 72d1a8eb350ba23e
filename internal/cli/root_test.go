package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"mammy-coker-hub/internal/identity"
	"mammy-coker-hub/internal/usecase/auth"

	"github.com/google/uuid"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_RegistersCommands(t *testing.T) {
	cmd := newRootCmd()
	want := map[string]bool{"migrate": false, "seed": false, "login": false, "notify": false}
	for _, c := range cmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing command %q", name)
		}
	}
}

func TestLogin_RequiresCredentials(t *testing.T) {
	t.Setenv(passwordEnv, "")
	_, err := run(t, "login", "--email", "a@b.sl")
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestNotify_RejectsBadUser(t *testing.T) {
	_, err := run(t, "notify", "--user", "nope", "--title", "t", "--message", "m")
	if err == nil || !strings.Contains(err.Error(), "invalid --user") {
		t.Fatalf("expected user error, got %v", err)
	}
}

func TestNotify_ValidatesBeforeConnecting(t *testing.T) {
	_, err := run(t, "notify", "--user", uuid.NewString(), "--type", "bogus", "--title", "t", "--message", "m")
	if err == nil || !strings.Contains(err.Error(), "type") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPrintSession_HidesTokenByDefault(t *testing.T) {
	st := auth.State{
		User:    &auth.ViewUser{ID: uuid.New(), Email: "a@b.sl"},
		Session: &identity.Session{AccessToken: "secret", ExpiresAt: time.Now()},
	}

	var buf bytes.Buffer
	if err := printSession(&buf, st, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "secret") {
		t.Fatal("token printed without --show-token")
	}

	buf.Reset()
	if err := printSession(&buf, st, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "secret") {
		t.Fatal("expected token with --show-token")
	}
}
