package commentservice

import (
	"github.com/sushihentaime/inkwell/internal/common"
)

// Comment length is capped client-side only; the server requires content to
// be non-empty and nothing more.
func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
