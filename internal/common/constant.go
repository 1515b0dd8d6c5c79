package common

// AuthorizationHeaderName carries the bearer token on every authenticated
// backend call.
const AuthorizationHeaderName = "Authorization"

// SubjectHeaderName is the secondary header carrying the subject identifier
// (the user's email) alongside the token.
const SubjectHeaderName = "X-User-Id"

// BearerPrefix prefixes the token value in the Authorization header.
const BearerPrefix = "Bearer "
