package graphql

import (
	"github.com/PhucHuuDang/GraphQL/pkg/response"

	"github.com/graphql-go/graphql"
)

type inputs struct {
	postFilters    *graphql.InputObject
	createPost     *graphql.InputObject
	updatePost     *graphql.InputObject
	signUp         *graphql.InputObject
	signIn         *graphql.InputObject
	createAuthor   *graphql.InputObject
	createCategory *graphql.InputObject
}

func (t *types) inputs() inputs {
	str := func() *graphql.InputObjectFieldConfig { return &graphql.InputObjectFieldConfig{Type: graphql.String} }
	boolean := func() *graphql.InputObjectFieldConfig { return &graphql.InputObjectFieldConfig{Type: graphql.Boolean} }
	required := func(typ graphql.Input) *graphql.InputObjectFieldConfig {
		return &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(typ)}
	}
	tags := func() *graphql.InputObjectFieldConfig {
		return &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))}
	}

	return inputs{
		postFilters: graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "PostFiltersInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"search":      str(),
				"categoryId":  &graphql.InputObjectFieldConfig{Type: graphql.ID},
				"authorId":    &graphql.InputObjectFieldConfig{Type: graphql.ID},
				"tags":        tags(),
				"status":      &graphql.InputObjectFieldConfig{Type: t.postStatus},
				"isPublished": boolean(),
				"isPriority":  boolean(),
				"sortBy":      str(),
				"sortOrder":   str(),
				"page":        &graphql.InputObjectFieldConfig{Type: graphql.Int},
				"limit":       &graphql.InputObjectFieldConfig{Type: graphql.Int},
			},
		}),
		createPost: graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "CreatePostInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"title":       required(graphql.String),
				"description": str(),
				"content":     &graphql.InputObjectFieldConfig{Type: jsonScalar},
				"mainImage":   str(),
				"tags":        tags(),
				"categoryId":  &graphql.InputObjectFieldConfig{Type: graphql.ID},
				"isPublished": boolean(),
				"isPriority":  boolean(),
				"isPinned":    boolean(),
			},
		}),
		updatePost: graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "UpdatePostInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"title":       str(),
				"description": str(),
				"content":     &graphql.InputObjectFieldConfig{Type: jsonScalar},
				"mainImage":   str(),
				"tags":        tags(),
				"categoryId":  &graphql.InputObjectFieldConfig{Type: graphql.ID},
				"isPublished": boolean(),
				"isPriority":  boolean(),
				"isPinned":    boolean(),
			},
		}),
		signUp: graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "SignUpInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"name":        required(graphql.String),
				"email":       required(graphql.String),
				"password":    required(graphql.String),
				"avatarUrl":   str(),
				"rememberMe":  boolean(),
				"callbackURL": str(),
			},
		}),
		signIn: graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "SignInInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"email":       required(graphql.String),
				"password":    required(graphql.String),
				"callbackURL": str(),
				"rememberMe":  boolean(),
			},
		}),
		createAuthor: graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "CreateAuthorInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"name":        required(graphql.String),
				"email":       str(),
				"password":    str(),
				"avatarUrl":   str(),
				"bio":         str(),
				"designation": str(),
				"role":        &graphql.InputObjectFieldConfig{Type: t.role},
				"socialLinks": &graphql.InputObjectFieldConfig{Type: jsonScalar},
			},
		}),
		createCategory: graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "CreateCategoryInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"name":        required(graphql.String),
				"description": str(),
			},
		}),
	}
}

func arg(typ graphql.Input) *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: typ}
}

func argDefault(typ graphql.Input, value interface{}) *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: typ, DefaultValue: value}
}

// NewSchema assembles the query and mutation roots from the resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	t := r.types
	in := t.inputs()
	id := nonNull(graphql.ID)

	paging := func(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
		extra["page"] = argDefault(graphql.Int, 1)
		extra["limit"] = argDefault(graphql.Int, 10)
		return extra
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"posts": r.field(response.KindPaginated, t.post, r.listPosts,
				withArgs(graphql.FieldConfigArgument{"filters": arg(in.postFilters)}),
				withDescription("Filtered, paginated posts")),
			"post": r.field(response.KindSingle, t.post, r.getPost,
				withArgs(graphql.FieldConfigArgument{"id": arg(id)})),
			"postBySlug": r.field(response.KindSingle, t.post, r.getPostBySlug,
				withArgs(graphql.FieldConfigArgument{"slug": arg(nonNull(graphql.String))})),
			"myPosts": r.field(response.KindPaginated, t.post, r.myPosts,
				withArgs(graphql.FieldConfigArgument{"filters": arg(in.postFilters)}),
				withGuards(authenticated)),
			"priorityPosts": r.field(response.KindArray, t.post, r.priorityPosts,
				withArgs(graphql.FieldConfigArgument{"limit": argDefault(graphql.Int, 10)})),
			"allPosts": r.field(response.KindArray, t.post, r.allPosts),
			"searchPosts": r.field(response.KindPaginated, t.post, r.searchPosts,
				withArgs(paging(graphql.FieldConfigArgument{"search": arg(nonNull(graphql.String))}))),
			"comments": r.field(response.KindPaginated, t.comment, r.listComments,
				withArgs(paging(graphql.FieldConfigArgument{"postId": arg(id)}))),
			"categories": r.field(response.KindArray, t.category, r.listCategories),
			"author": r.field(response.KindSingle, t.user, r.getAuthor,
				withArgs(graphql.FieldConfigArgument{"id": arg(id)})),
			"getSession": r.field(response.KindSingle, t.sessionView, r.getSession),
			"getProfile": r.field(response.KindSingle, t.profile, r.getProfile,
				withGuards(authenticated)),
			"getAccounts": r.field(response.KindArray, t.account, r.getAccounts,
				withGuards(authenticated)),
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createPost": r.field(response.KindSingle, t.post, r.createPost,
				withArgs(graphql.FieldConfigArgument{"input": arg(nonNull(in.createPost))}),
				withGuards(authenticated)),
			"updatePost": r.field(response.KindSingle, t.post, r.updatePost,
				withArgs(graphql.FieldConfigArgument{"id": arg(id), "data": arg(nonNull(in.updatePost))}),
				withGuards(authenticated)),
			"deletePost": r.field(response.KindDelete, t.post, r.deletePost,
				withArgs(graphql.FieldConfigArgument{"id": arg(id)}),
				withGuards(authenticated)),
			"restorePost": r.field(response.KindSingle, t.post, r.restorePost,
				withArgs(graphql.FieldConfigArgument{"id": arg(id)}),
				withGuards(authenticated),
				withMessage("Post restored successfully")),
			"incrementViews": r.field(response.KindSingle, t.post, r.incrementViews,
				withArgs(graphql.FieldConfigArgument{"id": arg(id), "identifier": arg(graphql.String)})),
			"moderatePost": r.field(response.KindSingle, t.post, r.moderatePost,
				withArgs(graphql.FieldConfigArgument{"id": arg(id), "status": arg(nonNull(t.postStatus))}),
				withGuards(privileged)),
			"toggleLike": r.field(response.KindSingle, t.likeResult, r.toggleLike,
				withArgs(graphql.FieldConfigArgument{"postId": arg(id)}),
				withGuards(authenticated)),
			"addComment": r.field(response.KindSingle, t.comment, r.addComment,
				withArgs(graphql.FieldConfigArgument{"postId": arg(id), "content": arg(nonNull(graphql.String))}),
				withGuards(authenticated)),
			"signUpEmail": r.field(response.KindSingle, t.authResult, r.signUp,
				withArgs(graphql.FieldConfigArgument{"signUpInput": arg(nonNull(in.signUp))})),
			"signInEmail": r.field(response.KindSingle, t.authResult, r.signIn,
				withArgs(graphql.FieldConfigArgument{"signInInput": arg(nonNull(in.signIn))}),
				withMessage("Signed in successfully")),
			"signOut": r.field(response.KindRaw, t.signOutResult, r.signOut),
			"gitHub": r.field(response.KindSingle, t.oauthRedirect, r.gitHub,
				withArgs(graphql.FieldConfigArgument{"callbackURL": arg(graphql.String)})),
			"updateProfile": r.field(response.KindSingle, t.user, r.updateProfile,
				withArgs(graphql.FieldConfigArgument{"name": arg(graphql.String), "avatarUrl": arg(graphql.String)}),
				withGuards(authenticated)),
			"createCategory": r.field(response.KindSingle, t.category, r.createCategory,
				withArgs(graphql.FieldConfigArgument{"category": arg(nonNull(in.createCategory))}),
				withGuards(authenticated)),
			"createCategories": r.field(response.KindBulk, t.category, r.createCategories,
				withArgs(graphql.FieldConfigArgument{"names": arg(nonNull(graphql.NewList(nonNull(graphql.String))))}),
				withGuards(privileged)),
			"createAuthor": r.field(response.KindSingle, t.user, r.createAuthor,
				withArgs(graphql.FieldConfigArgument{"author": arg(nonNull(in.createAuthor))}),
				withGuards(privileged)),
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
		Types:    []graphql.Type{jsonScalar},
	})
}
