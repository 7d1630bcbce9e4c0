// Package config loads studyhall settings from an optional config.yaml, an
// optional .env file and STUDYHALL_* environment variables, in increasing
// order of precedence. Nested keys map to variables with underscores, so
// progression.post_xp_reward is read from STUDYHALL_PROGRESSION_POST_XP_REWARD.
//
// The result is validated before use. The server section carries the port,
// log level and shutdown timeout. The database section selects the postgres
// or memory driver. The redis section enables the shop catalog cache, and the
// progression section holds the XP granted for community posts.
package config
