package classify

import (
	"reflect"
	"testing"

	"github.com/mwalsh/harrier/internal/models"
)

const hydraSample = `Hydra v9.1 (c) 2020 by van Hauser/THC
[DATA] attacking ssh://10.0.0.1:22/
[STATUS] 14.00 tries/min, 14 tries in 00:01h
[22][ssh] host: 10.0.0.1   login: user   password: pass
1 of 1 target successfully completed, 1 valid password found
`

// TestCredentialsSingleHit verifies exactly one finding with the extracted
// pair, regardless of how many non-matching lines precede it.
func TestCredentialsSingleHit(t *testing.T) {
	findings := Credentials(hydraSample, models.ServiceSSH, "10.0.0.1")

	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Target != "10.0.0.1" || f.Service != models.ServiceSSH {
		t.Errorf("finding target/service = %s/%s", f.Target, f.Service)
	}
	want := map[string]string{"username": "user", "password": "pass"}
	if !reflect.DeepEqual(f.Detail, want) {
		t.Errorf("Detail = %v, want %v", f.Detail, want)
	}
}

// TestCredentialsMultipleHits verifies all hits on separate lines are kept.
func TestCredentialsMultipleHits(t *testing.T) {
	output := `[22][ssh] host: 10.0.0.1 login: root password: toor
[22][ssh] host: 10.0.0.1 login: admin password: admin123
`
	findings := Credentials(output, models.ServiceSSH, "10.0.0.1")
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
	if findings[1].Detail["username"] != "admin" {
		t.Errorf("second username = %q, want %q", findings[1].Detail["username"], "admin")
	}
}

// TestCredentialsMalformedLines verifies structurally broken marker lines are
// skipped while later valid lines still match.
func TestCredentialsMalformedLines(t *testing.T) {
	output := `login: password:
something login:
[22][ssh] host: 10.0.0.1 login: user password: secret
`
	findings := Credentials(output, models.ServiceSSH, "10.0.0.1")
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Detail["password"] != "secret" {
		t.Errorf("password = %q, want %q", findings[0].Detail["password"], "secret")
	}
}

// TestCredentialsNoMarker verifies output without a success marker yields
// nothing, never an error.
func TestCredentialsNoMarker(t *testing.T) {
	for _, output := range []string{"", "no matches here\nat all\n", "password: only half"} {
		if got := Credentials(output, models.ServiceSSH, "10.0.0.1"); got != nil {
			t.Errorf("Credentials(%q) = %v, want nil", output, got)
		}
	}
}

// TestCredentialsIdempotent verifies classification is a pure function of
// its input (ignoring timestamps).
func TestCredentialsIdempotent(t *testing.T) {
	first := Credentials(hydraSample, models.ServiceSSH, "10.0.0.1")
	second := Credentials(hydraSample, models.ServiceSSH, "10.0.0.1")

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !reflect.DeepEqual(first[i].Detail, second[i].Detail) {
			t.Errorf("detail %d differs: %v vs %v", i, first[i].Detail, second[i].Detail)
		}
	}
}
