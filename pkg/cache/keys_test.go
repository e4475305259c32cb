package cache

import "testing"

func TestKeyDeterministic(t *testing.T) {
	a := Key("lookup", "1.2.3.4")
	b := Key("lookup", "1.2.3.4")
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
}

func TestKeyNamespaceSeparation(t *testing.T) {
	if Key("lookup", "1.2.3.4") == Key("record", "1.2.3.4") {
		t.Fatalf("expected namespaces to produce distinct keys")
	}
}

func TestKeyQualifier(t *testing.T) {
	plain := Key("record", "1.2.3.4")
	qualified := Key("record", "1.2.3.4", "geo")
	if plain == qualified {
		t.Fatalf("expected qualifier to change key")
	}
	if Key("record", "1.2.3.4", "") != plain {
		t.Fatalf("expected empty qualifier to be ignored")
	}
}

func TestKeyIPv6(t *testing.T) {
	a := Key("lookup", "2001:db8::1")
	b := Key("lookup", "2001:db8::1")
	if a != b {
		t.Fatalf("expected identical keys for ipv6, got %q and %q", a, b)
	}
	if a == Key("record", "2001:db8::1") {
		t.Fatalf("expected distinct keys across namespaces for ipv6")
	}
}
