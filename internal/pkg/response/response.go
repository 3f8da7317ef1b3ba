package response

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi/proxyutil"
)

// apiError carries the numeric code proxyutil expects in the error
// envelope.
type apiError struct {
	code    uint32
	message string
}

func (e *apiError) Error() string { return e.message }
func (e *apiError) Code() uint32  { return e.code }

func Success(c *gin.Context, data interface{}) {
	proxyutil.SuccessJson(c, data)
}

// Error writes the failure envelope. HTTP status stays 200; clients
// dispatch on the embedded code.
func Error(c *gin.Context, code int, message string) {
	proxyutil.FailJson(c, 200, &apiError{code: uint32(code), message: message})
}
