package response

import (
	"net/http"
	"strings"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"
)

// ErrorBody is the JSON body written by HTTP routes outside GraphQL.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// WriteError resolves err and aborts the request with the fallback body, or
// with an RFC 7807 document when the client asks for problem+json.
func WriteError(c *gin.Context, err error) {
	appErr := errs.Resolve(err)
	if appErr == nil {
		appErr = errs.Internal("Internal server error", nil)
	}

	if strings.Contains(c.GetHeader("Accept"), problems.ProblemMediaType) {
		problem := problems.NewDetailedProblem(appErr.StatusCode, appErr.Message)
		problem.Instance = c.Request.URL.Path
		c.Header("Content-Type", problems.ProblemMediaType)
		c.AbortWithStatusJSON(appErr.StatusCode, problem)
		return
	}

	c.AbortWithStatusJSON(appErr.StatusCode, ErrorBody{
		StatusCode: appErr.StatusCode,
		Message:    appErr.Message,
		Error:      http.StatusText(appErr.StatusCode),
		Code:       appErr.Code,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}
