package form

import (
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"

	"github.com/julianstephens/nazmara/internal/constants"
)

var errEmail = errors.New("email format is invalid")

var idnaProfile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.Transitional(false),
)

// normalizeEmail checks that s is a single bare address and returns it with
// the local part in NFC and the domain lower-cased in its Unicode form.
// No DNS lookup is made.
func normalizeEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return "", errEmail
	}

	at := strings.LastIndex(addr.Address, "@")
	if at <= 0 || at == len(addr.Address)-1 {
		return "", errEmail
	}
	local := norm.NFC.String(addr.Address[:at])
	domain := addr.Address[at+1:]

	if len(local) > constants.MaxEmailLocalPart {
		return "", errEmail
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return "", errEmail
	}

	ascii, err := idnaProfile.ToASCII(domain)
	if err != nil {
		return "", errEmail
	}
	if !strings.Contains(ascii, ".") || strings.HasPrefix(ascii, ".") || strings.HasSuffix(ascii, ".") {
		return "", errEmail
	}
	unicode, err := idna.ToUnicode(ascii)
	if err != nil {
		return "", errEmail
	}

	return local + "@" + strings.ToLower(unicode), nil
}
