package graphql

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/middleware"
	"github.com/PhucHuuDang/GraphQL/pkg/response"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

type resolveFunc func(p graphql.ResolveParams) (interface{}, error)

// guard runs before a resolver and rejects the call with an error.
type guard func(p graphql.ResolveParams) error

type fieldOptions struct {
	args        graphql.FieldConfigArgument
	guards      []guard
	message     string
	description string
}

type fieldOption func(*fieldOptions)

func withArgs(args graphql.FieldConfigArgument) fieldOption {
	return func(o *fieldOptions) { o.args = args }
}

func withGuards(guards ...guard) fieldOption {
	return func(o *fieldOptions) { o.guards = append(o.guards, guards...) }
}

func withMessage(message string) fieldOption {
	return func(o *fieldOptions) { o.message = message }
}

func withDescription(description string) fieldOption {
	return func(o *fieldOptions) { o.description = description }
}

// field registers a resolver behind the common pipeline: guards, then the
// resolver, then error classification or envelope normalization.
func (r *Resolver) field(kind response.Kind, item graphql.Output, resolve resolveFunc, opts ...fieldOption) *graphql.Field {
	o := &fieldOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return &graphql.Field{
		Type:        r.types.envelope(kind, item),
		Args:        o.args,
		Description: o.description,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			for _, g := range o.guards {
				if err := g(p); err != nil {
					return nil, r.fail(p, err)
				}
			}

			value, err := resolve(p)
			if err != nil {
				return nil, r.fail(p, err)
			}
			return response.Normalize(value, response.Meta{Kind: kind, Message: o.message}, operation(p)), nil
		},
	}
}

func (r *Resolver) fail(p graphql.ResolveParams, err error) error {
	appErr := errs.Resolve(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error("%s failed: %v", p.Info.FieldName, err)
	}
	return appErr
}

func operation(p graphql.ResolveParams) response.Operation {
	op := response.Operation{Name: p.Info.FieldName, Type: response.Query}
	if def, ok := p.Info.Operation.(*ast.OperationDefinition); ok && def.Operation != "" {
		op.Type = response.OperationType(def.Operation)
	}
	return op
}

func authenticated(p graphql.ResolveParams) error {
	if _, ok := middleware.IdentityFrom(p.Context); !ok {
		return errs.Unauthorized("Authentication required")
	}
	return nil
}

func privileged(p graphql.ResolveParams) error {
	if err := authenticated(p); err != nil {
		return err
	}
	if !actor(p).Privileged() {
		return errs.Forbidden("Insufficient permissions")
	}
	return nil
}

func actor(p graphql.ResolveParams) entity.Actor {
	id, ok := middleware.IdentityFrom(p.Context)
	if !ok {
		return entity.Actor{}
	}
	return entity.Actor{UserID: id.UserID, Role: entity.Role(id.Role)}
}

type ginContextKey struct{}

func withGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ginContextKey{}, c)
}

func ginContext(ctx context.Context) (*gin.Context, bool) {
	c, ok := ctx.Value(ginContextKey{}).(*gin.Context)
	return c, ok
}

// decode copies a GraphQL input value into a typed struct through its JSON tags.
func decode(arg interface{}, out interface{}) error {
	raw, err := json.Marshal(arg)
	if err != nil {
		return errs.BadRequest("Invalid input")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errs.BadRequest("Invalid input")
	}
	return nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func intArg(p graphql.ResolveParams, name string) int {
	n, _ := p.Args[name].(int)
	return n
}
