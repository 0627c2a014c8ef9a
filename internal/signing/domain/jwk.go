package domain

// JWK is a JSON Web Key as published by the JWKS endpoint. Only RSA public
// keys are published; HMAC keys are symmetric and never leave the envelope.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSet is the document served at the well-known JWKS path.
type JWKSet struct {
	Keys []JWK `json:"keys"`
}
