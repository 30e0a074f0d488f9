package version

import "fmt"

const Name = "apigateway"

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

func GetVersion() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", Name, Version, Commit, BuildDate)
}

func GetShortVersion() string {
	return Version
}

// ServerName is the product token sent in the Server header.
func ServerName() string {
	if Version == "" {
		return Name
	}
	return Name + "/" + Version
}
