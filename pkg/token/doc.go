// Package token generates and verifies printlink API tokens.
//
// Token format:
//
//   - Prefix: plt_
//   - Body: 43 characters of Base64 RawURL encoded random bytes (32 bytes)
//
// Servers may store only the hex SHA-256 of a token (64 characters) and
// verify presented tokens against it in constant time.
package token
