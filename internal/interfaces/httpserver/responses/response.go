package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/freesearch-mcp/utils/platformerrors"
)

type ErrorResponse struct {
	Code          string `json:"code"`
	Error         string `json:"error"`
	ErrorInstance error  `json:"-"`
}

// HandleError writes err as JSON. Status code is derived from the error type.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(platformErr.GetErrorType()), ErrorResponse{
			Code:          string(platformErr.GetErrorType()),
			Error:         message,
			ErrorInstance: platformErr,
		})
		return
	}
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Code:          string(platformerrors.ErrorTypeUnexpected),
		Error:         message,
		ErrorInstance: err,
	})
}

// HandleNewError creates a typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string) {
	err := platformerrors.NewError(platformerrors.LayerInterface, errorType, message, nil)
	HandleError(reqCtx, err, message)
}
