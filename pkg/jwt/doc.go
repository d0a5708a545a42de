// Package jwt reads claims from access and refresh tokens issued by the backend
// without verifying their signature.
//
// The client never holds the signing key, so it cannot validate tokens; the claims are
// only used for display and scheduling (for example showing when the current access token
// expires). Authorization decisions stay on the server.
//
//	claims, err := jwt.Inspect(accessToken)
//	if err != nil {
//		return err
//	}
//	fmt.Println("expires at", claims.ExpiresAt)
//
//	if jwt.ExpiresWithin(accessToken, 30*time.Second, time.Now()) {
//		// token is about to expire
//	}
package jwt
