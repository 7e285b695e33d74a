package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"scrobblex/internal/consts"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
)

// 代表响应给客户端的的一个消息结构，包括错误码，错误信息，响应数据
type ApiResponse struct {
	RequestId string      `json:"request_id"` // 请求的唯一ID
	Code      int         `json:"code"`       // 错误码 0表示无错误
	Message   string      `json:"message"`    // 提示信息
	Data      interface{} `json:"data"`       // 响应数据
}

// 业务错误码对应的http状态码，未列出的错误一律 400
var statusOf = map[int]int{
	ecode.Success:        http.StatusOK,
	ecode.Unknown:        http.StatusInternalServerError,
	ecode.NotFoundErr:    http.StatusNotFound,
	ecode.RequireAuthErr: http.StatusUnauthorized,
	ecode.PermissionErr:  http.StatusForbidden,
	ecode.TooManyReqErr:  http.StatusTooManyRequests,
	ecode.ConflictErr:    http.StatusConflict,

	ecode.ArtistNotFoundErr: http.StatusNotFound,
	ecode.PriceChangedErr:   http.StatusConflict,
}

func HttpStatus(code int) int {
	if s, ok := statusOf[code]; ok {
		return s
	}
	return http.StatusBadRequest
}

// 发送json格式数据
func JSON(c *gin.Context, err error, data interface{}) {
	code, message := errors.DecodeErr(err)
	c.JSON(HttpStatus(code), ApiResponse{
		RequestId: c.GetString(consts.RequestId),
		Code:      code,
		Message:   message,
		Data:      data,
	})
}

// token鉴权失败，返回401
func RequireAuthErr(c *gin.Context, err error) {
	var message string
	if err != nil {
		message = err.Error()
	} else {
		message = "unknow error."
	}
	c.JSON(http.StatusUnauthorized, ApiResponse{
		RequestId: c.GetString(consts.RequestId),
		Code:      ecode.RequireAuthErr,
		Message:   "invalid token:" + message,
	})
}

// 非管理员访问管理接口，返回403
func PermissionDenied(c *gin.Context) {
	c.JSON(http.StatusForbidden, ApiResponse{
		RequestId: c.GetString(consts.RequestId),
		Code:      ecode.PermissionErr,
		Message:   ecode.Message(ecode.PermissionErr),
	})
}

// 请求频繁，返回429
func TooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, ApiResponse{
		RequestId: c.GetString(consts.RequestId),
		Code:      ecode.TooManyReqErr,
		Message:   "The request is too frequent. Please try again later.",
	})
}
