package method

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// Salts are the fixed secrets tokens are signed with. The admin token covers
// the current clock hour; regular tokens are stable per account and login.
type Salts struct {
	Shared string
	Admin  string
}

// adminStampLayout is the hour-granularity timestamp the admin token signs.
const adminStampLayout = "2006010215"

// CheckAuth verifies the envelope token. The expected token is the hex sha512
// digest of the hour stamp plus the admin salt for the admin identity, or of
// account, login and the shared salt otherwise. The comparison is
// constant-time.
func CheckAuth(req *MethodRequest, now time.Time, salts Salts) bool {
	var payload string
	if req.IsAdmin() {
		payload = now.Format(adminStampLayout) + salts.Admin
	} else {
		payload = req.Account + req.Login + salts.Shared
	}
	sum := sha512.Sum512([]byte(payload))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(digest), []byte(req.Token)) == 1
}
