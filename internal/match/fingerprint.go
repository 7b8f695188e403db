package match

import (
	"fmt"

	"golang.org/x/crypto/ssh"
)

// Fingerprint returns the SHA256 fingerprint of a public key in
// authorized_keys format, as ssh-keygen -l would print it.
func Fingerprint(content string) (string, error) {
	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse public key: %w", err)
	}
	return ssh.FingerprintSHA256(key), nil
}
