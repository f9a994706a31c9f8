package delivery_http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth_app "yatube-post-service/internal/application/service/auth"
	post_app "yatube-post-service/internal/application/service/post"
	"yatube-post-service/internal/application/validation"
	model "yatube-post-service/internal/domain/models"
	auth_http "yatube-post-service/internal/infrastructure/inbound/http/auth"
	"yatube-post-service/internal/infrastructure/logger"
	"yatube-post-service/internal/infrastructure/outbound/metrics/prometheus"
	"yatube-post-service/internal/infrastructure/outbound/repository/memory"
	session_memory "yatube-post-service/internal/infrastructure/outbound/session/memory"
)

const cookieName = "yatube_session"

var articleID = regexp.MustCompile(`<article data-post-id="(\d+)"`)

type testApp struct {
	router *gin.Engine
	posts  *memory.PostRepository
	groups *memory.GroupRepository
	auth   *auth_app.Service
}

func tickingClock() func() time.Time {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("test")
	metrics := prometheus.NewPrometheusMetricsProvider()
	storage := memory.NewStorage(memory.WithClock(tickingClock()))
	postRepo := memory.NewPostRepository(storage, log)
	groupRepo := memory.NewGroupRepository(storage, log)
	userRepo := memory.NewUserRepository(storage, log)
	validate := validation.New()

	posts := post_app.NewPostService(postRepo, groupRepo, userRepo, memory.NewUnitOfWork(storage, log), validate, log, metrics)
	auth := auth_app.NewAuthService(userRepo, session_memory.NewSessionStore(), validate, []byte("test-secret"),
		time.Hour, log, metrics, auth_app.WithPasswordCost(bcrypt.MinCost))

	return &testApp{
		router: NewRouter(posts, auth, auth_http.CookieConfig{Name: cookieName, TTL: time.Hour}, log, metrics),
		posts:  postRepo,
		groups: groupRepo,
		auth:   auth,
	}
}

func (a *testApp) signup(t *testing.T, username string) (*model.User, *http.Cookie) {
	t.Helper()
	ctx := context.Background()
	user, err := a.auth.Signup(ctx, &model.SignupDTO{Username: username, Password: "password123"})
	require.NoError(t, err)
	token, _, err := a.auth.Login(ctx, username, "password123")
	require.NoError(t, err)
	return user, &http.Cookie{Name: cookieName, Value: token}
}

func (a *testApp) group(t *testing.T, slug string) *model.Group {
	t.Helper()
	g, err := a.groups.Create(context.Background(), &model.Group{Title: "Group " + slug, Slug: slug, Description: "About " + slug})
	require.NoError(t, err)
	return g
}

func (a *testApp) post(t *testing.T, author *model.User, text string, group *model.Group) *model.Post {
	t.Helper()
	p := &model.Post{AuthorID: author.ID, Text: text}
	if group != nil {
		p.GroupID = &group.ID
	}
	created, err := a.posts.Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

func (a *testApp) count(t *testing.T) int {
	t.Helper()
	_, total, err := a.posts.List(context.Background(), model.PostFilters{})
	require.NoError(t, err)
	return total
}

func (a *testApp) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func postIDs(body string) []int64 {
	var ids []int64
	for _, m := range articleID.FindAllStringSubmatch(body, -1) {
		id, _ := strconv.ParseInt(m[1], 10, 64)
		ids = append(ids, id)
	}
	return ids
}

func TestRouter_Pagination(t *testing.T) {
	app := newTestApp(t)
	author, _ := app.signup(t, "TestAuthor")
	group := app.group(t, "test-slug")
	for i := 0; i < model.PostsPerPage+1; i++ {
		app.post(t, author, fmt.Sprintf("Test text %d", i), group)
	}

	urls := []string{"/", "/group/test-slug/", "/profile/TestAuthor/"}
	pages := []struct {
		query string
		want  int
	}{
		{query: "", want: 10},
		{query: "?page=1", want: 10},
		{query: "?page=2", want: 1},
		{query: "?page=3", want: 0},
		{query: "?page=abc", want: 10},
		{query: "?page=-1", want: 10},
	}

	for _, u := range urls {
		for _, p := range pages {
			t.Run(u+p.query, func(t *testing.T) {
				w := app.do(http.MethodGet, u+p.query, nil, nil)
				require.Equal(t, http.StatusOK, w.Code)

				ids := postIDs(w.Body.String())
				assert.Len(t, ids, p.want)
				for i := 1; i < len(ids); i++ {
					assert.Greater(t, ids[i-1], ids[i], "posts must be listed newest first")
				}
			})
		}
	}

	first := postIDs(app.do(http.MethodGet, "/", nil, nil).Body.String())
	require.NotEmpty(t, first)
	assert.Equal(t, int64(model.PostsPerPage+1), first[0], "the newest post leads the first page")
}

func TestRouter_PagesAndNotFound(t *testing.T) {
	app := newTestApp(t)
	author, cookie := app.signup(t, "author")
	group := app.group(t, "slug1")
	post := app.post(t, author, "Test post", group)

	tests := []struct {
		name         string
		path         string
		cookie       *http.Cookie
		wantStatus   int
		wantTemplate string
	}{
		{name: "index", path: "/", wantStatus: http.StatusOK, wantTemplate: "index"},
		{name: "group", path: "/group/slug1/", wantStatus: http.StatusOK, wantTemplate: "group_list"},
		{name: "profile", path: "/profile/author/", wantStatus: http.StatusOK, wantTemplate: "profile"},
		{name: "detail", path: fmt.Sprintf("/posts/%d/", post.ID), wantStatus: http.StatusOK, wantTemplate: "post_detail"},
		{name: "create", path: "/create/", cookie: cookie, wantStatus: http.StatusOK, wantTemplate: "create_post"},
		{name: "edit", path: fmt.Sprintf("/posts/%d/edit/", post.ID), cookie: cookie, wantStatus: http.StatusOK, wantTemplate: "create_post"},
		{name: "login", path: "/auth/login/", wantStatus: http.StatusOK, wantTemplate: "login"},
		{name: "signup", path: "/auth/signup/", wantStatus: http.StatusOK, wantTemplate: "signup"},
		{name: "unknown group", path: "/group/missing/", wantStatus: http.StatusNotFound, wantTemplate: "404"},
		{name: "unknown user", path: "/profile/ghost/", wantStatus: http.StatusNotFound, wantTemplate: "404"},
		{name: "unknown post", path: "/posts/999/", wantStatus: http.StatusNotFound, wantTemplate: "404"},
		{name: "non numeric post", path: "/posts/abc/", wantStatus: http.StatusNotFound, wantTemplate: "404"},
		{name: "unknown post edit", path: "/posts/999/edit/", cookie: cookie, wantStatus: http.StatusNotFound, wantTemplate: "404"},
		{name: "unknown route", path: "/unexisting_page/", wantStatus: http.StatusNotFound, wantTemplate: "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(http.MethodGet, tt.path, nil, tt.cookie)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), fmt.Sprintf(`data-template="%s"`, tt.wantTemplate))
		})
	}
}

func TestRouter_PostDetail(t *testing.T) {
	app := newTestApp(t)
	author, _ := app.signup(t, "author")
	group := app.group(t, "slug1")
	post := app.post(t, author, "Detailed text", group)
	app.post(t, author, "Another", nil)

	w := app.do(http.MethodGet, fmt.Sprintf("/posts/%d/", post.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Detailed text")
	assert.Contains(t, body, `href="/group/slug1/"`)
	assert.Contains(t, body, `href="/profile/author/"`)
	assert.Contains(t, body, `<span class="author-posts-count">2</span>`)
	assert.NotContains(t, body, "edit post", "anonymous visitors get no edit link")
}

func TestRouter_CreatePost(t *testing.T) {
	app := newTestApp(t)
	user, cookie := app.signup(t, "writer")
	group := app.group(t, "slug1")

	before := app.count(t)
	w := app.do(http.MethodPost, "/create/", url.Values{
		"text":  {"First check"},
		"group": {strconv.FormatInt(group.ID, 10)},
	}, cookie)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/writer/", w.Header().Get("Location"))
	assert.Equal(t, before+1, app.count(t))

	latest, _, err := app.posts.List(context.Background(), model.PostFilters{AuthorID: &user.ID})
	require.NoError(t, err)
	require.NotEmpty(t, latest)
	assert.Equal(t, "First check", latest[0].Post.Text)
	require.NotNil(t, latest[0].Post.GroupID)
	assert.Equal(t, group.ID, *latest[0].Post.GroupID)
	assert.Equal(t, user.ID, latest[0].Post.AuthorID)

	profile := app.do(http.MethodGet, "/profile/writer/", nil, nil)
	require.Equal(t, http.StatusOK, profile.Code)
	ids := postIDs(profile.Body.String())
	require.NotEmpty(t, ids)
	assert.Equal(t, latest[0].Post.ID, ids[0])
}

func TestRouter_CreatePost_InvalidForm(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.signup(t, "writer")

	tests := []struct {
		name       string
		form       url.Values
		wantFields []string
	}{
		{name: "empty text", form: url.Values{"text": {""}}, wantFields: []string{"text"}},
		{name: "whitespace text", form: url.Values{"text": {"   \n "}}, wantFields: []string{"text"}},
		{name: "non numeric group", form: url.Values{"text": {"Hello"}, "group": {"abc"}}, wantFields: []string{"group"}},
		{name: "unknown group", form: url.Values{"text": {"Hello"}, "group": {"999"}}, wantFields: []string{"group"}},
		{name: "empty text and non numeric group", form: url.Values{"text": {""}, "group": {"abc"}}, wantFields: []string{"text", "group"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := app.count(t)
			w := app.do(http.MethodPost, "/create/", tt.form, cookie)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `data-template="create_post"`)
			for _, field := range tt.wantFields {
				assert.Contains(t, w.Body.String(), fmt.Sprintf(`data-field="%s"`, field))
			}
			assert.Equal(t, before, app.count(t))
		})
	}
}

func TestRouter_AnonymousIsSentToLogin(t *testing.T) {
	app := newTestApp(t)
	author, _ := app.signup(t, "author")
	post := app.post(t, author, "Original", nil)
	editPath := fmt.Sprintf("/posts/%d/edit/", post.ID)

	tests := []struct {
		name   string
		method string
		path   string
		form   url.Values
		want   string
	}{
		{name: "create form", method: http.MethodGet, path: "/create/", want: "/auth/login/?next=/create/"},
		{name: "create submit", method: http.MethodPost, path: "/create/", form: url.Values{"text": {"x"}}, want: "/auth/login/?next=/create/"},
		{name: "edit form", method: http.MethodGet, path: editPath, want: "/auth/login/?next=" + editPath},
		{name: "edit submit", method: http.MethodPost, path: editPath, form: url.Values{"text": {"x"}}, want: "/auth/login/?next=" + editPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := app.count(t)
			w := app.do(tt.method, tt.path, tt.form, nil)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
			assert.Equal(t, before, app.count(t))
		})
	}

	got, err := app.posts.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Post.Text)
}

func TestRouter_EditPost(t *testing.T) {
	app := newTestApp(t)
	author, authorCookie := app.signup(t, "author")
	_, otherCookie := app.signup(t, "other")
	group := app.group(t, "slug1")
	post := app.post(t, author, "Original", group)
	editPath := fmt.Sprintf("/posts/%d/edit/", post.ID)
	detailPath := fmt.Sprintf("/posts/%d/", post.ID)

	t.Run("non author is redirected to detail", func(t *testing.T) {
		w := app.do(http.MethodGet, editPath, nil, otherCookie)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, detailPath, w.Header().Get("Location"))

		w = app.do(http.MethodPost, editPath, url.Values{"text": {"Hijacked"}}, otherCookie)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, detailPath, w.Header().Get("Location"))

		got, err := app.posts.GetByID(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Post.Text)
	})

	t.Run("non author submitting an invalid form is still redirected", func(t *testing.T) {
		w := app.do(http.MethodPost, editPath, url.Values{"text": {""}}, otherCookie)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, detailPath, w.Header().Get("Location"))
	})

	t.Run("author sees prefilled form", func(t *testing.T) {
		w := app.do(http.MethodGet, editPath, nil, authorCookie)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, ">Original</textarea>")
		assert.Contains(t, body, fmt.Sprintf(`<option value="%d" selected>`, group.ID))
	})

	t.Run("author empty text keeps the post", func(t *testing.T) {
		w := app.do(http.MethodPost, editPath, url.Values{"text": {" "}}, authorCookie)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `data-field="text"`)

		got, err := app.posts.GetByID(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Post.Text)
	})

	t.Run("author bad group and empty text report both fields", func(t *testing.T) {
		w := app.do(http.MethodPost, editPath, url.Values{"text": {""}, "group": {"abc"}}, authorCookie)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `data-field="text"`)
		assert.Contains(t, w.Body.String(), `data-field="group"`)

		got, err := app.posts.GetByID(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Post.Text)
		assert.Equal(t, &group.ID, got.Post.GroupID)
	})

	t.Run("author updates text", func(t *testing.T) {
		before := app.count(t)
		w := app.do(http.MethodPost, editPath, url.Values{"text": {"Edited text"}}, authorCookie)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, detailPath, w.Header().Get("Location"))
		assert.Equal(t, before, app.count(t))

		follow := app.do(http.MethodGet, w.Header().Get("Location"), nil, authorCookie)
		require.Equal(t, http.StatusOK, follow.Code)
		assert.Contains(t, follow.Body.String(), "Edited text")
		assert.Contains(t, follow.Body.String(), "edit post")

		got, err := app.posts.GetByID(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Edited text", got.Post.Text)
		assert.Nil(t, got.Post.GroupID, "an empty group choice clears the group")
		assert.Equal(t, post.PubDate, got.Post.PubDate)
	})
}

func TestRouter_GroupDeletionKeepsPosts(t *testing.T) {
	app := newTestApp(t)
	author, _ := app.signup(t, "author")
	group := app.group(t, "slug1")
	post := app.post(t, author, "Grouped", group)

	require.NoError(t, app.groups.Delete(context.Background(), group.Slug))

	w := app.do(http.MethodGet, fmt.Sprintf("/posts/%d/", post.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "/group/slug1/")

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/group/slug1/", nil, nil).Code)
}

func TestRouter_AuthFlow(t *testing.T) {
	app := newTestApp(t)

	t.Run("signup logs the user in", func(t *testing.T) {
		w := app.do(http.MethodPost, "/auth/signup/", url.Values{"username": {"newbie"}, "password": {"password123"}}, nil)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Contains(t, w.Header().Get("Set-Cookie"), cookieName+"=")
		assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")
	})

	t.Run("duplicate signup re-renders", func(t *testing.T) {
		w := app.do(http.MethodPost, "/auth/signup/", url.Values{"username": {"newbie"}, "password": {"password123"}}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `data-field="username"`)
	})

	t.Run("wrong password re-renders", func(t *testing.T) {
		w := app.do(http.MethodPost, "/auth/login/", url.Values{"username": {"newbie"}, "password": {"nope-nope"}}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `class="form-error"`)
	})

	t.Run("login follows next then logout revokes the session", func(t *testing.T) {
		w := app.do(http.MethodPost, "/auth/login/", url.Values{
			"username": {"newbie"},
			"password": {"password123"},
			"next":     {"/create/"},
		}, nil)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/create/", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		session := cookies[0]
		assert.Equal(t, cookieName, session.Name)

		assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/create/", nil, session).Code)

		out := app.do(http.MethodPost, "/auth/logout/", nil, session)
		assert.Equal(t, http.StatusFound, out.Code)

		after := app.do(http.MethodGet, "/create/", nil, session)
		assert.Equal(t, http.StatusFound, after.Code)
		assert.Equal(t, "/auth/login/?next=/create/", after.Header().Get("Location"))
	})

	t.Run("login ignores foreign next", func(t *testing.T) {
		for _, next := range []string{"https://evil.example/", "/\t/evil.example", "/\r\n/evil.example"} {
			w := app.do(http.MethodPost, "/auth/login/", url.Values{
				"username": {"newbie"},
				"password": {"password123"},
				"next":     {next},
			}, nil)
			require.Equal(t, http.StatusFound, w.Code, next)
			assert.Equal(t, "/", w.Header().Get("Location"), next)
		}
	})

	t.Run("multibyte password over the bcrypt limit re-renders", func(t *testing.T) {
		w := app.do(http.MethodPost, "/auth/signup/", url.Values{
			"username": {"ivan"},
			"password": {strings.Repeat("ж", 40)},
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `data-field="password"`)
	})
}
