package conf

import "testing"

func TestDefaultValues(t *testing.T) {
	p := Default()
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"broker_address", p.BrokerAddress, "<BROKER_IP_ADDRESS>"},
		{"broker_port", p.BrokerPort, 7883},
		{"username", p.Username, "<your_username>"},
		{"password", p.Password, "<your_password>"},
		{"basic_topic", p.BasicTopic, "/iot/user/<your_username>"},
		{"vehicle_segment", VehicleTopic, "vehicle"},
		{"telemetry_segment", TelemetryTopic, "telemetry"},
		{"info_segment", InfoTopic, "info"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestDefaultIsPure(t *testing.T) {
	if Default() != Default() {
		t.Fatalf("Default not stable across calls")
	}
}

func TestBasicTopicDerivation(t *testing.T) {
	p := New("10.0.0.2", 1883, "alice", "s3cret")
	if p.BasicTopic != "/iot/user/alice" {
		t.Fatalf("derived topic %q", p.BasicTopic)
	}
	p = p.WithUsername("bob")
	if p.BasicTopic != "/iot/user/bob" {
		t.Fatalf("re-derived topic %q", p.BasicTopic)
	}
	// Direct mutation does not re-derive; the record keeps its
	// definition-time topic.
	p.Username = "carol"
	if p.BasicTopic != "/iot/user/bob" {
		t.Fatalf("unexpected re-derivation: %q", p.BasicTopic)
	}
}

func TestWithCredentials(t *testing.T) {
	p := Default().WithCredentials("alice", "pw")
	if p.Username != "alice" || p.Password != "pw" {
		t.Fatalf("credentials not applied: %+v", p)
	}
	if p.BasicTopic != "/iot/user/alice" {
		t.Fatalf("basic topic not re-derived: %q", p.BasicTopic)
	}
	if p.BrokerAddress != DefaultBrokerAddress {
		t.Fatalf("broker unexpectedly changed: %q", p.BrokerAddress)
	}
}

func TestBrokerURI(t *testing.T) {
	p := New("broker.local", 1883, "u", "p")
	if got := p.BrokerURI(); got != "tcp://broker.local:1883" {
		t.Fatalf("uri %q", got)
	}
}

func TestIsPlaceholder(t *testing.T) {
	for _, v := range []string{DefaultBrokerAddress, DefaultUsername, DefaultPassword} {
		if !IsPlaceholder(v) {
			t.Errorf("%q not detected as placeholder", v)
		}
	}
	for _, v := range []string{"broker.local", "alice", "", "<>", "a<b>"} {
		if IsPlaceholder(v) {
			t.Errorf("%q wrongly detected as placeholder", v)
		}
	}
}

func TestComplete(t *testing.T) {
	if Default().Complete() {
		t.Fatalf("default record should be incomplete")
	}
	got := Default().Placeholders()
	want := []string{"broker_address", "username", "password"}
	if len(got) != len(want) {
		t.Fatalf("placeholders %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("placeholders %v", got)
		}
	}
	p := New("broker.local", 1883, "alice", "pw")
	if !p.Complete() || p.Placeholders() != nil {
		t.Fatalf("real record should be complete: %v", p.Placeholders())
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		p       Params
		wantErr bool
	}{
		{"default placeholders pass", Default(), false},
		{"real values pass", New("broker.local", 1883, "alice", "pw"), false},
		{"port zero", New("b", 0, "u", "p"), true},
		{"port too high", New("b", 70000, "u", "p"), true},
		{"empty address", New("", 1883, "u", "p"), true},
		{"empty username", New("b", 1883, "", "p"), true},
		{"username with separator", New("b", 1883, "a/b", "p"), true},
	}
	for _, c := range cases {
		err := c.p.Validate()
		if c.wantErr && err == nil {
			t.Errorf("%s: expected error", c.name)
		}
		if !c.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
		}
	}
}

func TestValidateDetectsStaleTopic(t *testing.T) {
	p := New("b", 1883, "alice", "pw")
	p.Username = "bob"
	if err := p.Validate(); err == nil {
		t.Fatalf("stale basic topic not detected")
	}
}
