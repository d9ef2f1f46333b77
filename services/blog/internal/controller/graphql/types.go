package graphql

import (
	"github.com/PhucHuuDang/GraphQL/pkg/response"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"

	"github.com/graphql-go/graphql"
)

// types holds every object type of the schema. User and Post reference each
// other, so their fields are thunks.
type types struct {
	postStatus *graphql.Enum
	role       *graphql.Enum

	user          *graphql.Object
	category      *graphql.Object
	post          *graphql.Object
	comment       *graphql.Object
	likeResult    *graphql.Object
	session       *graphql.Object
	account       *graphql.Object
	authResult    *graphql.Object
	sessionView   *graphql.Object
	profile       *graphql.Object
	signOutResult *graphql.Object
	oauthRedirect *graphql.Object
	pageMeta      *graphql.Object

	envelopes map[string]*graphql.Object
}

func nonNull(t graphql.Type) *graphql.NonNull { return graphql.NewNonNull(t) }

func listOf(t graphql.Type) *graphql.List { return graphql.NewList(nonNull(t)) }

func newTypes() *types {
	t := &types{envelopes: make(map[string]*graphql.Object)}

	statusValues := graphql.EnumValueConfigMap{}
	for _, s := range entity.PostStatuses {
		statusValues[string(s)] = &graphql.EnumValueConfig{Value: s}
	}
	t.postStatus = graphql.NewEnum(graphql.EnumConfig{Name: "PostStatus", Values: statusValues})

	t.role = graphql.NewEnum(graphql.EnumConfig{
		Name: "Role",
		Values: graphql.EnumValueConfigMap{
			string(entity.RoleUser):      &graphql.EnumValueConfig{Value: entity.RoleUser},
			string(entity.RoleAdmin):     &graphql.EnumValueConfig{Value: entity.RoleAdmin},
			string(entity.RoleModerator): &graphql.EnumValueConfig{Value: entity.RoleModerator},
		},
	})

	t.user = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":            &graphql.Field{Type: nonNull(graphql.ID)},
				"name":          &graphql.Field{Type: nonNull(graphql.String)},
				"email":         &graphql.Field{Type: graphql.String},
				"emailVerified": &graphql.Field{Type: nonNull(graphql.Boolean)},
				"image":         &graphql.Field{Type: graphql.String},
				"avatarUrl": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						if u, ok := p.Source.(*entity.User); ok {
							return u.Image, nil
						}
						if u, ok := p.Source.(entity.User); ok {
							return u.Image, nil
						}
						return nil, nil
					},
				},
				"bio":         &graphql.Field{Type: graphql.String},
				"designation": &graphql.Field{Type: graphql.String},
				"role":        &graphql.Field{Type: nonNull(t.role)},
				"isActive":    &graphql.Field{Type: nonNull(graphql.Boolean)},
				"isVerified":  &graphql.Field{Type: nonNull(graphql.Boolean)},
				"isDeleted":   &graphql.Field{Type: nonNull(graphql.Boolean)},
				"isSuspended": &graphql.Field{Type: nonNull(graphql.Boolean)},
				"isLocked":    &graphql.Field{Type: nonNull(graphql.Boolean)},
				"isExpired":   &graphql.Field{Type: nonNull(graphql.Boolean)},
				"isBlocked":   &graphql.Field{Type: nonNull(graphql.Boolean)},
				"socialLinks": &graphql.Field{Type: jsonScalar},
				"posts":       &graphql.Field{Type: listOf(t.post)},
				"createdAt":   &graphql.Field{Type: nonNull(graphql.DateTime)},
				"updatedAt":   &graphql.Field{Type: nonNull(graphql.DateTime)},
			}
		}),
	})

	t.category = graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: nonNull(graphql.ID)},
			"name":        &graphql.Field{Type: nonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"createdAt":   &graphql.Field{Type: nonNull(graphql.DateTime)},
			"updatedAt":   &graphql.Field{Type: nonNull(graphql.DateTime)},
		},
	})

	t.post = graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":                   &graphql.Field{Type: nonNull(graphql.ID)},
				"title":                &graphql.Field{Type: nonNull(graphql.String)},
				"slug":                 &graphql.Field{Type: nonNull(graphql.String)},
				"description":          &graphql.Field{Type: graphql.String},
				"content":              &graphql.Field{Type: jsonScalar},
				"mainImage":            &graphql.Field{Type: graphql.String},
				"tags":                 &graphql.Field{Type: nonNull(listOf(graphql.String))},
				"status":               &graphql.Field{Type: nonNull(t.postStatus)},
				"isPublished":          &graphql.Field{Type: nonNull(graphql.Boolean)},
				"isPriority":           &graphql.Field{Type: nonNull(graphql.Boolean)},
				"isPinned":             &graphql.Field{Type: nonNull(graphql.Boolean)},
				"isDeleted":            &graphql.Field{Type: nonNull(graphql.Boolean)},
				"views":                &graphql.Field{Type: nonNull(graphql.Int)},
				"likeCount":            &graphql.Field{Type: nonNull(graphql.Int)},
				"commentCount":         &graphql.Field{Type: nonNull(graphql.Int)},
				"authorId":             &graphql.Field{Type: nonNull(graphql.ID)},
				"author":               &graphql.Field{Type: t.user},
				"categoryId":           &graphql.Field{Type: graphql.ID},
				"category":             &graphql.Field{Type: t.category},
				"publishedAt":          &graphql.Field{Type: graphql.DateTime},
				"submittedForReviewAt": &graphql.Field{Type: graphql.DateTime},
				"moderatedAt":          &graphql.Field{Type: graphql.DateTime},
				"deletedAt":            &graphql.Field{Type: graphql.DateTime},
				"createdAt":            &graphql.Field{Type: nonNull(graphql.DateTime)},
				"updatedAt":            &graphql.Field{Type: nonNull(graphql.DateTime)},
			}
		}),
	})

	t.comment = graphql.NewObject(graphql.ObjectConfig{
		Name: "Comment",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: nonNull(graphql.ID)},
			"content":   &graphql.Field{Type: nonNull(graphql.String)},
			"userId":    &graphql.Field{Type: nonNull(graphql.ID)},
			"postId":    &graphql.Field{Type: nonNull(graphql.ID)},
			"user":      &graphql.Field{Type: t.user},
			"createdAt": &graphql.Field{Type: nonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: nonNull(graphql.DateTime)},
		},
	})

	t.likeResult = graphql.NewObject(graphql.ObjectConfig{
		Name: "LikeResult",
		Fields: graphql.Fields{
			"postId":    &graphql.Field{Type: nonNull(graphql.ID)},
			"liked":     &graphql.Field{Type: nonNull(graphql.Boolean)},
			"likeCount": &graphql.Field{Type: nonNull(graphql.Int)},
		},
	})

	t.session = graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: nonNull(graphql.ID)},
			"token":     &graphql.Field{Type: nonNull(graphql.String)},
			"userId":    &graphql.Field{Type: nonNull(graphql.ID)},
			"expiresAt": &graphql.Field{Type: nonNull(graphql.DateTime)},
			"ipAddress": &graphql.Field{Type: graphql.String},
			"userAgent": &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: nonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: nonNull(graphql.DateTime)},
		},
	})

	t.account = graphql.NewObject(graphql.ObjectConfig{
		Name: "Account",
		Fields: graphql.Fields{
			"id":                   &graphql.Field{Type: nonNull(graphql.ID)},
			"accountId":            &graphql.Field{Type: nonNull(graphql.String)},
			"providerId":           &graphql.Field{Type: nonNull(graphql.String)},
			"userId":               &graphql.Field{Type: nonNull(graphql.ID)},
			"scope":                &graphql.Field{Type: graphql.String},
			"accessTokenExpiresAt": &graphql.Field{Type: graphql.DateTime},
			"createdAt":            &graphql.Field{Type: nonNull(graphql.DateTime)},
			"updatedAt":            &graphql.Field{Type: nonNull(graphql.DateTime)},
		},
	})

	t.authResult = graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthResult",
		Fields: graphql.Fields{
			"redirect": &graphql.Field{Type: nonNull(graphql.Boolean)},
			"token":    &graphql.Field{Type: nonNull(graphql.String)},
			"url":      &graphql.Field{Type: graphql.String},
			"user":     &graphql.Field{Type: t.user},
		},
	})

	t.sessionView = graphql.NewObject(graphql.ObjectConfig{
		Name: "SessionView",
		Fields: graphql.Fields{
			"session": &graphql.Field{Type: t.session},
			"user":    &graphql.Field{Type: t.user},
		},
	})

	t.profile = graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"user":     &graphql.Field{Type: t.user},
			"accounts": &graphql.Field{Type: listOf(t.account)},
		},
	})

	t.signOutResult = graphql.NewObject(graphql.ObjectConfig{
		Name: "SignOutResult",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: nonNull(graphql.Boolean)},
		},
	})

	t.oauthRedirect = graphql.NewObject(graphql.ObjectConfig{
		Name: "OAuthRedirect",
		Fields: graphql.Fields{
			"url":      &graphql.Field{Type: nonNull(graphql.String)},
			"redirect": &graphql.Field{Type: nonNull(graphql.Boolean)},
		},
	})

	t.pageMeta = graphql.NewObject(graphql.ObjectConfig{
		Name: "PaginationMeta",
		Fields: graphql.Fields{
			"total":      &graphql.Field{Type: nonNull(graphql.Int)},
			"page":       &graphql.Field{Type: nonNull(graphql.Int)},
			"limit":      &graphql.Field{Type: nonNull(graphql.Int)},
			"totalPages": &graphql.Field{Type: nonNull(graphql.Int)},
			"hasNext":    &graphql.Field{Type: nonNull(graphql.Boolean)},
			"hasPrev":    &graphql.Field{Type: nonNull(graphql.Boolean)},
		},
	})

	return t
}

// envelope returns the response type wrapping item for kind. Types are
// shared between fields with the same item and kind.
func (t *types) envelope(kind response.Kind, item graphql.Output) graphql.Output {
	var name string
	fields := graphql.Fields{
		"success": &graphql.Field{Type: nonNull(graphql.Boolean)},
		"message": &graphql.Field{Type: nonNull(graphql.String)},
	}

	switch kind {
	case response.KindRaw:
		return item
	case response.KindDelete:
		name = "DeleteResponse"
		fields["deletedId"] = &graphql.Field{Type: graphql.ID}
	case response.KindBulk:
		name = "BulkResponse"
		fields["count"] = &graphql.Field{Type: nonNull(graphql.Int)}
		fields["affectedIds"] = &graphql.Field{Type: listOf(graphql.ID)}
	case response.KindArray:
		name = item.Name() + "ListResponse"
		fields["data"] = &graphql.Field{Type: listOf(item)}
		fields["count"] = &graphql.Field{Type: graphql.Int}
	case response.KindPaginated:
		name = "Paginated" + item.Name() + "Response"
		fields["data"] = &graphql.Field{Type: listOf(item)}
		fields["meta"] = &graphql.Field{Type: t.pageMeta}
	default:
		name = item.Name() + "Response"
		fields["data"] = &graphql.Field{Type: item}
	}

	if obj, ok := t.envelopes[name]; ok {
		return obj
	}
	obj := graphql.NewObject(graphql.ObjectConfig{Name: name, Fields: fields})
	t.envelopes[name] = obj
	return obj
}
