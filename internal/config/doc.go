// Package config discovers and loads the Google Drive credentials used by drivecheck.
//
// Settings are read from the first dotenv-style file found among a fixed list of
// candidates (see Candidates), falling back to the process environment when none
// exists. Values already set in the process environment take precedence over
// values from the file.
package config
