package config

// Sanitize returns a copy of cfg that is safe to log.
//
// The plain token is replaced outright. The SHA-256 keeps an 8-character
// fingerprint so operators can tell which token a node was given.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	out := *cfg
	if out.Security.APIToken != "" {
		out.Security.APIToken = redacted
	}
	out.Security.APITokenSHA256 = fingerprint(out.Security.APITokenSHA256)
	return &out
}

const redacted = "[redacted]"

func fingerprint(hash string) string {
	if len(hash) <= 8 {
		return hash
	}
	return hash[:8] + "…"
}
