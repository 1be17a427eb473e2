package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// PasswordEnvVar names the environment variable the admin CLI reads the
// password from when running non-interactively.
const PasswordEnvVar = "PROFILES_PASSWORD"
