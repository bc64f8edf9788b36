package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var shopDomainRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*\.myshopify\.com$`)

// SignHMAC returns the hex HMAC-SHA256 of data under secret.
func SignHMAC(data, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyQueryHMAC checks the hmac (or signature) parameter of a platform
// callback query. The digest covers all remaining parameters sorted by key,
// joined as key=value pairs with '&'. Comparison is constant-time.
func VerifyQueryHMAC(query url.Values, secret string) bool {
	provided := query.Get("hmac")
	if provided == "" {
		provided = query.Get("signature")
	}
	if provided == "" {
		return false
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+strings.Join(query[k], ","))
	}
	expected := SignHMAC(strings.Join(pairs, "&"), secret)

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(provided)))
}

// ValidShopDomain reports whether shop looks like a platform store domain.
func ValidShopDomain(shop string) bool {
	return shopDomainRe.MatchString(shop)
}
