package userservice

import (
	"regexp"

	"github.com/sushihentaime/bloglist/internal/common"
)

const maxPasswordBytes = 72

var usernameRX = regexp.MustCompile("^[a-zA-Z0-9]+$")

func validateUsername(v *common.Validator, username string) {
	v.Required("username", username)
	v.Length("username", username, 3, 25)
	v.Matches("username", username, usernameRX, "must only contain letters and numbers")
}

func validatePassword(v *common.Validator, password string) {
	v.Required("password", password)
	v.Length("password", password, 3, 0)
	// bcrypt refuses longer input
	v.Check(len(password) <= maxPasswordBytes, "password", "must not be more than 72 bytes long")
}
