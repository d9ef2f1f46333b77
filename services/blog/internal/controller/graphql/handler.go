package graphql

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

type Handler struct {
	schema graphql.Schema
	logger *logger.Logger
}

func NewHandler(schema graphql.Schema, logger *logger.Logger) *Handler {
	return &Handler{schema: schema, logger: logger}
}

type Request struct {
	Query         string                 `json:"query" form:"query"`
	OperationName string                 `json:"operationName" form:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Serve godoc
// @Summary      Execute a GraphQL operation
// @Description  Runs a query or mutation. Every field resolves to an envelope with success, message and data; failures are reported in errors[].extensions.code.
// @Tags         graphql
// @Accept       json
// @Produce      json
// @Param        request body Request true "GraphQL request"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.ErrorBody
// @Failure      405  {object}  response.ErrorBody
// @Router       /graphql [post]
func (h *Handler) Serve(c *gin.Context) {
	req, err := h.bind(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	ctx := withGinContext(c.Request.Context(), c)
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	if len(result.Errors) > 0 {
		h.logger.Debug("graphql %s returned %d error(s)", req.OperationName, len(result.Errors))
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) bind(c *gin.Context) (*Request, error) {
	var req Request
	if c.Request.Method == http.MethodGet {
		if err := c.ShouldBindQuery(&req); err != nil {
			return nil, errs.BadRequest("Invalid query parameters")
		}
		if vars := c.Query("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return nil, errs.BadRequest("variables must be a JSON object")
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errs.BadRequest("Request body must be a JSON GraphQL request")
	}

	if req.Query == "" {
		return nil, errs.Validation("query", "query is required")
	}
	if c.Request.Method == http.MethodGet {
		if err := queryOnly(&req); err != nil {
			return nil, err
		}
	}
	return &req, nil
}

// queryOnly rejects GET requests whose selected operation is a mutation or
// subscription. Documents that fail to parse are left to graphql.Do.
func queryOnly(req *Request) error {
	doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
	if err != nil {
		return nil
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok || op.Operation == ast.OperationTypeQuery {
			continue
		}
		if req.OperationName != "" && (op.Name == nil || op.Name.Value != req.OperationName) {
			continue
		}
		return errs.MethodNotAllowed(fmt.Sprintf("%s operations must be sent with POST", op.Operation))
	}
	return nil
}
