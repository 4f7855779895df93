package configs

import _ "embed"

// DefaultProperties is the application.yml shipped with the binary, used when no
// properties file is found on disk.
//
//go:embed application.yml
var DefaultProperties []byte

// DefaultMessages is the messages.yml shipped with the binary.
//
//go:embed messages.yml
var DefaultMessages []byte
