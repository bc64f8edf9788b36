package util

import (
	"net/url"
	"testing"
)

func TestVerifyQueryHMAC(t *testing.T) {
	secret := "hush"

	query := url.Values{}
	query.Set("shop", "example.myshopify.com")
	query.Set("timestamp", "1337178173")
	query.Set("code", "0907a61c0c8d55e99db179b68161bc00")
	query.Set("hmac", SignHMAC("code=0907a61c0c8d55e99db179b68161bc00&shop=example.myshopify.com&timestamp=1337178173", secret))

	if !VerifyQueryHMAC(query, secret) {
		t.Fatalf("expected valid hmac to verify")
	}

	query.Set("shop", "tampered.myshopify.com")
	if VerifyQueryHMAC(query, secret) {
		t.Fatalf("expected tampered query to fail verification")
	}
}

func TestVerifyQueryHMACMissing(t *testing.T) {
	query := url.Values{}
	query.Set("shop", "example.myshopify.com")
	if VerifyQueryHMAC(query, "hush") {
		t.Fatalf("expected missing hmac to fail verification")
	}
}

func TestValidShopDomain(t *testing.T) {
	cases := []struct {
		shop string
		ok   bool
	}{
		{"example.myshopify.com", true},
		{"my-store-2.myshopify.com", true},
		{"", false},
		{"example.com", false},
		{"-leading.myshopify.com", false},
		{"evil.myshopify.com.attacker.io", false},
	}
	for _, tc := range cases {
		if got := ValidShopDomain(tc.shop); got != tc.ok {
			t.Fatalf("ValidShopDomain(%q) = %v, want %v", tc.shop, got, tc.ok)
		}
	}
}
