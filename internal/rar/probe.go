package rar

import (
	"errors"

	"github.com/nwaples/rardecode/v2"
)

// Probe walks the archive headers in-process without extracting anything.
// It reports nil when the volume chain is readable with the given password.
func Probe(path, password string) error {
	var opts []rardecode.Option
	if password != "" {
		opts = append(opts, rardecode.Password(password))
	}
	_, err := rardecode.List(path, opts...)
	return err
}

// IsPasswordError reports whether err indicates that archive decryption
// credentials are required or incorrect.
func IsPasswordError(err error) bool {
	return errors.Is(err, rardecode.ErrArchiveEncrypted) ||
		errors.Is(err, rardecode.ErrArchivedFileEncrypted) ||
		errors.Is(err, rardecode.ErrBadPassword)
}
