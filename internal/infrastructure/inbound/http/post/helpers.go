package post_http

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"yatube-post-service/internal/custom_errors"
	ports "yatube-post-service/internal/domain/ports/output"
	"yatube-post-service/internal/infrastructure/inbound/http/render"

	"github.com/gin-gonic/gin"
)

// unknownGroupID stands in for an unparsable select value. Group ids start at
// one, so the service rejects it as an invalid choice together with any other
// field errors.
const unknownGroupID int64 = 0

// pageNumber reads ?page=; anything unparsable or below one means the first page.
func pageNumber(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func isNotFound(err error) bool {
	return errors.Is(err, custom_errors.ErrPostNotFound) ||
		errors.Is(err, custom_errors.ErrGroupNotFound) ||
		errors.Is(err, custom_errors.ErrUserNotFound)
}

func renderError(c *gin.Context, log ports.Logger, err error) {
	if isNotFound(err) {
		render.NotFound(c)
		return
	}
	log.Error("Unexpected error serving page", slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
	_ = c.Error(err)
	render.ServerError(c)
}

// postForm is the submitted create/edit form as typed by the user.
type postForm struct {
	Text  string
	Group string
}

func bindPostForm(c *gin.Context) postForm {
	return postForm{
		Text:  c.PostForm("text"),
		Group: strings.TrimSpace(c.PostForm("group")),
	}
}

// groupID converts the select value; an empty value means no group.
func (f postForm) groupID() *int64 {
	if f.Group == "" {
		return nil
	}
	id, err := strconv.ParseInt(f.Group, 10, 64)
	if err != nil {
		id = unknownGroupID
	}
	return &id
}

func validationFields(err error) (map[string]string, bool) {
	var verr *custom_errors.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}
