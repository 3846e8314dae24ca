package blogservice

import (
	"github.com/sushihentaime/inkwell/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 0, 200), "title", "must not be more than 200 characters")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateExcerpt(v *common.Validator, excerpt string) {
	v.Check(v.CheckStringLength(excerpt, 0, 300), "excerpt", "must not be more than 300 characters")
}

func validateCategory(v *common.Validator, category string) {
	v.Check(category != "", "category", "must be provided")
	v.Check(common.CheckPermittedValue(category, Categories...), "category", "must be a valid category")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
