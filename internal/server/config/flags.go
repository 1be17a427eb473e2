package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/profiles/internal/flagx"
)

// FlagNames lists the command-line flags owned by the config package. Other
// components sharing the command line strip these before parsing their own.
var FlagNames = append(append([]string{}, serverFlags...), flagx.ConfigFileFlags...)

var serverFlags = []string{"-a", "-b", "-d", "-s", "-t", "-r", "-p", "-l"}

// parseFlags overlays command-line flags onto config.
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-b string   database driver: postgres or sqlite
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-p string   password hasher: argon2 or bcrypt
//	-l string   log level
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "b", config.DatabaseDriver, "database driver (postgres|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.PasswordHasher, "p", config.PasswordHasher, "password hasher (argon2|bcrypt)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return err
	}

	// Durations set by earlier layers need not be whole minutes, so they are
	// only replaced when the flag was given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
		}
	})
	return nil
}
