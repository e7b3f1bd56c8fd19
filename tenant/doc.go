// Package tenant issues tenant tokens: HMAC-signed JWTs that let a front end
// search with restricted rules without holding a real API key.
//
//	issuer := tenant.NewIssuer(searchKey)
//	exp := time.Now().Add(time.Hour)
//	token, err := issuer.Generate(tenant.SearchRules{
//	    "patients": map[string]any{"filter": "user_id = 1"},
//	}, tenant.Options{ExpiresAt: &exp, APIKeyUID: keyUID})
//
// Generation is local and deterministic: the same key, rules, expiration
// and uid always produce the same token.
package tenant
