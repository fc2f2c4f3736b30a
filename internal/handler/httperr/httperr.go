package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the error envelope every handler writes. Code is the
// machine-readable string clients match on; BookedCount rides along on
// booked-overlap rejections only.
type Response struct {
	Status      int    `json:"-"`
	Code        string `json:"error"`
	BookedCount int    `json:"booked_count,omitempty"`
}

// AbortWithError writes the envelope and records the original error on
// the context so the logging and error middleware can see it.
func AbortWithError(c *gin.Context, status int, err error, code string) {
	AbortWithResponse(c, err, Response{Status: status, Code: code})
}

func AbortWithResponse(c *gin.Context, err error, resp Response) {
	if err == nil {
		panic("AbortWithResponse: err cannot be nil")
	}
	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(resp.Status, resp)
}
