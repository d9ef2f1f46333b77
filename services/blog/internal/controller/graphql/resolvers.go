package graphql

import (
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/middleware"
	httpctl "github.com/PhucHuuDang/GraphQL/services/blog/internal/controller/http"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
)

type Resolver struct {
	posts      usecase.PostUseCase
	auth       usecase.AuthUseCase
	authors    usecase.AuthorUseCase
	categories usecase.CategoryUseCase
	cookie     httpctl.SessionCookie
	logger     *logger.Logger
	types      *types
}

func NewResolver(
	posts usecase.PostUseCase,
	auth usecase.AuthUseCase,
	authors usecase.AuthorUseCase,
	categories usecase.CategoryUseCase,
	cookie httpctl.SessionCookie,
	logger *logger.Logger,
) *Resolver {
	return &Resolver{
		posts:      posts,
		auth:       auth,
		authors:    authors,
		categories: categories,
		cookie:     cookie,
		logger:     logger,
		types:      newTypes(),
	}
}

// Posts

func (r *Resolver) listPosts(p graphql.ResolveParams) (interface{}, error) {
	filters, err := postFilters(p)
	if err != nil {
		return nil, err
	}
	return r.posts.ListPosts(p.Context, filters)
}

func (r *Resolver) myPosts(p graphql.ResolveParams) (interface{}, error) {
	filters, err := postFilters(p)
	if err != nil {
		return nil, err
	}
	return r.posts.MyPosts(p.Context, actor(p), filters)
}

func (r *Resolver) getPost(p graphql.ResolveParams) (interface{}, error) {
	return r.posts.GetPost(p.Context, stringArg(p, "id"))
}

func (r *Resolver) getPostBySlug(p graphql.ResolveParams) (interface{}, error) {
	return r.posts.GetPostBySlug(p.Context, stringArg(p, "slug"))
}

func (r *Resolver) priorityPosts(p graphql.ResolveParams) (interface{}, error) {
	return r.posts.PriorityPosts(p.Context, intArg(p, "limit"))
}

func (r *Resolver) allPosts(p graphql.ResolveParams) (interface{}, error) {
	return r.posts.AllPosts(p.Context)
}

func (r *Resolver) searchPosts(p graphql.ResolveParams) (interface{}, error) {
	return r.posts.SearchPosts(p.Context, stringArg(p, "search"), intArg(p, "page"), intArg(p, "limit"))
}

func (r *Resolver) createPost(p graphql.ResolveParams) (interface{}, error) {
	var in entity.CreatePostInput
	if err := decode(p.Args["input"], &in); err != nil {
		return nil, err
	}
	return r.posts.CreatePost(p.Context, actor(p), in)
}

func (r *Resolver) updatePost(p graphql.ResolveParams) (interface{}, error) {
	var in entity.UpdatePostInput
	if err := decode(p.Args["data"], &in); err != nil {
		return nil, err
	}
	return r.posts.UpdatePost(p.Context, actor(p), stringArg(p, "id"), in)
}

func (r *Resolver) deletePost(p graphql.ResolveParams) (interface{}, error) {
	return r.posts.DeletePost(p.Context, actor(p), stringArg(p, "id"))
}

func (r *Resolver) restorePost(p graphql.ResolveParams) (interface{}, error) {
	return r.posts.RestorePost(p.Context, actor(p), stringArg(p, "id"))
}

func (r *Resolver) incrementViews(p graphql.ResolveParams) (interface{}, error) {
	viewer := "ip:unknown"
	if c, ok := ginContext(p.Context); ok {
		viewer = httpctl.ViewerID(c, stringArg(p, "identifier"))
	} else if id := stringArg(p, "identifier"); id != "" {
		viewer = "guest:" + id
	}
	return r.posts.IncrementViews(p.Context, stringArg(p, "id"), viewer)
}

func (r *Resolver) moderatePost(p graphql.ResolveParams) (interface{}, error) {
	status, _ := p.Args["status"].(entity.PostStatus)
	return r.posts.ModeratePost(p.Context, actor(p), stringArg(p, "id"), status)
}

func (r *Resolver) toggleLike(p graphql.ResolveParams) (interface{}, error) {
	return r.posts.ToggleLike(p.Context, actor(p), stringArg(p, "postId"))
}

func (r *Resolver) addComment(p graphql.ResolveParams) (interface{}, error) {
	return r.posts.AddComment(p.Context, actor(p), stringArg(p, "postId"), stringArg(p, "content"))
}

func (r *Resolver) listComments(p graphql.ResolveParams) (interface{}, error) {
	return r.posts.ListComments(p.Context, stringArg(p, "postId"), intArg(p, "page"), intArg(p, "limit"))
}

func postFilters(p graphql.ResolveParams) (entity.PostFilters, error) {
	var filters entity.PostFilters
	if raw, ok := p.Args["filters"]; ok && raw != nil {
		if err := decode(raw, &filters); err != nil {
			return filters, err
		}
	}
	return filters, nil
}

// Auth

func (r *Resolver) signUp(p graphql.ResolveParams) (interface{}, error) {
	var in entity.SignUpInput
	if err := decode(p.Args["signUpInput"], &in); err != nil {
		return nil, err
	}
	c, _ := ginContext(p.Context)
	res, err := r.auth.SignUpEmail(p.Context, in, r.client(c))
	if err != nil {
		return nil, err
	}
	r.setSession(c, res)
	return res, nil
}

func (r *Resolver) signIn(p graphql.ResolveParams) (interface{}, error) {
	var in entity.SignInInput
	if err := decode(p.Args["signInInput"], &in); err != nil {
		return nil, err
	}
	c, _ := ginContext(p.Context)
	res, err := r.auth.SignInEmail(p.Context, in, r.client(c))
	if err != nil {
		return nil, err
	}
	r.setSession(c, res)
	return res, nil
}

func (r *Resolver) signOut(p graphql.ResolveParams) (interface{}, error) {
	res, err := r.auth.SignOut(p.Context, middleware.SessionTokenFrom(p.Context))
	if err != nil {
		return nil, err
	}
	if c, ok := ginContext(p.Context); ok {
		r.cookie.Clear(c)
	}
	return res, nil
}

func (r *Resolver) getSession(p graphql.ResolveParams) (interface{}, error) {
	return r.auth.GetSession(p.Context, middleware.SessionTokenFrom(p.Context))
}

func (r *Resolver) getProfile(p graphql.ResolveParams) (interface{}, error) {
	return r.auth.GetProfile(p.Context, actor(p).UserID)
}

func (r *Resolver) getAccounts(p graphql.ResolveParams) (interface{}, error) {
	return r.auth.GetAccounts(p.Context, actor(p).UserID)
}

func (r *Resolver) updateProfile(p graphql.ResolveParams) (interface{}, error) {
	var in entity.UpdateProfileInput
	if name, ok := p.Args["name"].(string); ok {
		in.Name = &name
	}
	if avatar, ok := p.Args["avatarUrl"].(string); ok {
		in.AvatarURL = &avatar
	}
	return r.auth.UpdateProfile(p.Context, actor(p).UserID, in)
}

func (r *Resolver) gitHub(p graphql.ResolveParams) (interface{}, error) {
	return r.auth.GitHubAuthURL(p.Context, stringArg(p, "callbackURL"))
}

func (r *Resolver) client(c *gin.Context) entity.ClientInfo {
	if c == nil {
		return entity.ClientInfo{}
	}
	return httpctl.Client(c)
}

func (r *Resolver) setSession(c *gin.Context, res *entity.AuthResult) {
	if c == nil || res == nil || res.Session == nil {
		return
	}
	r.cookie.Set(c, res.Session.Token, res.Session.ExpiresAt)
}

// Authors and categories

func (r *Resolver) createAuthor(p graphql.ResolveParams) (interface{}, error) {
	var in entity.CreateAuthorInput
	if err := decode(p.Args["author"], &in); err != nil {
		return nil, err
	}
	return r.authors.CreateAuthor(p.Context, in)
}

func (r *Resolver) getAuthor(p graphql.ResolveParams) (interface{}, error) {
	return r.authors.GetAuthor(p.Context, stringArg(p, "id"))
}

func (r *Resolver) createCategory(p graphql.ResolveParams) (interface{}, error) {
	var in entity.CreateCategoryInput
	if err := decode(p.Args["category"], &in); err != nil {
		return nil, err
	}
	return r.categories.CreateCategory(p.Context, in)
}

func (r *Resolver) createCategories(p graphql.ResolveParams) (interface{}, error) {
	var names []string
	if err := decode(p.Args["names"], &names); err != nil {
		return nil, err
	}
	return r.categories.CreateCategories(p.Context, names)
}

func (r *Resolver) listCategories(p graphql.ResolveParams) (interface{}, error) {
	return r.categories.ListCategories(p.Context)
}
