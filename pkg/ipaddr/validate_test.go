package ipaddr

import "testing"

func TestValidateIPv4(t *testing.T) {
	valid := []string{
		"0.0.0.0",
		"8.8.8.8",
		"192.168.1.1",
		"255.255.255.255",
		"1.2.3.4.",
		"255.255.255.255.",
	}
	for _, raw := range valid {
		result := Validate(raw)
		if !result.Valid || result.Version != 4 {
			t.Fatalf("expected %q to be valid ipv4, got %+v", raw, result)
		}
	}
}

func TestValidateIPv6(t *testing.T) {
	valid := []string{
		"::",
		"::1",
		"2001:db8::1",
		"2001:0db8:85a3:0000:0000:8a2e:0370:7334",
		"fe80::1%eth0",
		"::ffff:192.168.1.1",
		"1:2:3:4:5:6:7:8",
		"1::8",
		"1:2:3:4:5:6::8",
	}
	for _, raw := range valid {
		result := Validate(raw)
		if !result.Valid || result.Version != 6 {
			t.Fatalf("expected %q to be valid ipv6, got %+v", raw, result)
		}
	}
}

func TestValidateInvalid(t *testing.T) {
	invalid := []string{
		"256.1.1.1",
		"1.2.3",
		"1.2.3.",
		"1.2.3.4.5",
		"1.2.3.4..",
		"1234",
		"abc",
		"192.168.1.1/24",
		"2001:::1",
		"12345::",
		"1:2:3:4:5:6:7:8:9",
		"not-an-ip",
	}
	for _, raw := range invalid {
		result := Validate(raw)
		if result.Valid {
			t.Fatalf("expected %q to be invalid", raw)
		}
		if result.Reason != ReasonUnrecognized {
			t.Fatalf("expected unrecognized reason for %q, got %q", raw, result.Reason)
		}
	}
}

func TestValidateEmpty(t *testing.T) {
	result := Validate("")
	if result.Valid {
		t.Fatalf("expected empty input to be invalid")
	}
	if result.Reason != ReasonRequired {
		t.Fatalf("expected required reason, got %q", result.Reason)
	}
}
