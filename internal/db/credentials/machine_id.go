package credentials

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"runtime"
	"strings"
)

const passwordSalt = "pgsentry-keyring-salt-v1"

// deriveFilePassword generates the password for the file backend. It is
// derived from the machine id and username, so it survives restarts but
// differs per machine.
func deriveFilePassword() (string, error) {
	machineID, err := getMachineID()
	if err != nil {
		machineID, _ = os.Hostname()
	}

	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME") // Windows
	}
	if username == "" {
		username = fmt.Sprintf("uid-%d", os.Getuid())
	}

	hash := sha256.Sum256([]byte(machineID + username + passwordSalt))
	return base64.StdEncoding.EncodeToString(hash[:]), nil
}

func getMachineID() (string, error) {
	if runtime.GOOS == "linux" {
		for _, path := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} {
			if data, err := os.ReadFile(path); err == nil {
				return strings.TrimSpace(string(data)), nil
			}
		}
	}
	return os.Hostname()
}
