package blogservice

import (
	"github.com/sushihentaime/bloglist/internal/common"
)

// validateBlog checks a new blog. Update only requires presence of every field,
// plus the likes rule.
func validateBlog(v *common.Validator, b *Blog) {
	v.Required("title", b.Title)
	v.Required("url", b.URL)
	validateLikes(v, b.Likes)
}

func validateLikes(v *common.Validator, likes int) {
	v.Check(likes >= 0, "likes", "must not be negative")
}
